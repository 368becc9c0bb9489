package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,username"`
		Email    string `json:"email" validate:"required,email,max=254"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Auth.Signup(r.Context(), input.Username, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			app.Http.UnprocessableEntity(w, r, map[string]string{"username": err.Error()})
		case errors.Is(err, auth.ErrEmailTaken):
			app.Http.UnprocessableEntity(w, r, map[string]string{"email": err.Error()})
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"username": user.Username,
		"email":    user.Email,
	}, "Confirmation code sent")
}

func (app *Application) issueToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username         string `json:"username" validate:"required,username"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	token, err := app.services.Auth.IssueToken(r.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		switch {
		// an unknown username is 404, not 400: signup is the only place that
		// may disclose whether a username exists
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, auth.ErrInvalidCode):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
