package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/policy"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services/reviews"
)

func (app *Application) handleReviewsErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, reviews.ErrReviewExists):
		app.Http.BadRequest(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	var query struct {
		paginationQuery
	}
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("-created_at", "created_at", "score", "id")
	reviewList, total, err := app.services.Reviews.ListReviews(r.Context(), titleID, f)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewList, "total_records": total}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	var input struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	author := app.contextGetUser(r)
	review, err := app.services.Reviews.CreateReview(r.Context(), titleID, author, input.Text, input.Score)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	var input struct {
		Text  *string `json:"text" validate:"omitempty"`
		Score *int32  `json:"score" validate:"omitempty,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	// authorization needs the stored author, so the lookup precedes the check
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	if !policy.CanModifyAuthored(app.contextGetUser(r), review.AuthorID) {
		app.Http.Forbidden(w, r)
		return
	}
	updated, err := app.services.Reviews.UpdateReview(r.Context(), titleID, reviewID, input.Text, input.Score)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": updated}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	if !policy.CanModifyAuthored(app.contextGetUser(r), review.AuthorID) {
		app.Http.Forbidden(w, r)
		return
	}
	if err := app.services.Reviews.DeleteReview(r.Context(), titleID, reviewID); err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	var query struct {
		paginationQuery
	}
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("-created_at", "created_at", "id")
	comments, total, err := app.services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comments": comments, "total_records": total}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	author := app.contextGetUser(r)
	comment, err := app.services.Reviews.CreateComment(r.Context(), titleID, reviewID, author, input.Text)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	commentID, extracted := app.extractIDParam(w, r, "commentID")
	if !extracted {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	commentID, extracted := app.extractIDParam(w, r, "commentID")
	if !extracted {
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	if !policy.CanModifyAuthored(app.contextGetUser(r), comment.AuthorID) {
		app.Http.Forbidden(w, r)
		return
	}
	updated, err := app.services.Reviews.UpdateComment(r.Context(), titleID, reviewID, commentID, input.Text)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": updated}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	reviewID, extracted := app.extractIDParam(w, r, "reviewID")
	if !extracted {
		return
	}
	commentID, extracted := app.extractIDParam(w, r, "commentID")
	if !extracted {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	if !policy.CanModifyAuthored(app.contextGetUser(r), comment.AuthorID) {
		app.Http.Forbidden(w, r)
		return
	}
	if err := app.services.Reviews.DeleteComment(r.Context(), titleID, reviewID, commentID); err != nil {
		app.handleReviewsErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}
