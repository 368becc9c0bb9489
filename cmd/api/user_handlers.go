package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

func (app *Application) handleUsersErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrUsernameTaken):
		app.Http.UnprocessableEntity(w, r, map[string]string{"username": err.Error()})
	case errors.Is(err, users.ErrEmailTaken):
		app.Http.UnprocessableEntity(w, r, map[string]string{"email": err.Error()})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var query struct {
		paginationQuery
		Search string `schema:"search"`
	}
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("username", "username", "email", "role", "id")
	userList, total, err := app.services.Users.List(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"users": userList, "total_records": total}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username  string `json:"username" validate:"required,username"`
		Email     string `json:"email" validate:"required,email,max=254"`
		FirstName string `json:"first_name" validate:"omitempty,max=256"`
		LastName  string `json:"last_name" validate:"omitempty,max=256"`
		Bio       string `json:"bio"`
		Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Users.Create(r.Context(), users.CreateUserParams{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		app.handleUsersErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.services.Users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.handleUsersErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

type updateUserInput struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=256"`
	LastName  *string `json:"last_name" validate:"omitempty,max=256"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (i updateUserInput) params() users.UpdateUserParams {
	return users.UpdateUserParams{
		Email:     i.Email,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Bio:       i.Bio,
		Role:      i.Role,
	}
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var input updateUserInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Users.Update(r.Context(), chi.URLParam(r, "username"), input.params(), true)
	if err != nil {
		app.handleUsersErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		app.handleUsersErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getMe(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

// updateMe is the self-service profile endpoint: any role field in the
// payload is ignored rather than rejected.
func (app *Application) updateMe(w http.ResponseWriter, r *http.Request) {
	var input updateUserInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	me := app.contextGetUser(r)
	user, err := app.services.Users.Update(r.Context(), me.Username, input.params(), false)
	if err != nil {
		app.handleUsersErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
