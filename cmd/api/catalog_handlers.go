package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

func (app *Application) handleCatalogErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrGenreNotFound),
		errors.Is(err, catalog.ErrTitleNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, catalog.ErrSlugTaken):
		app.Http.UnprocessableEntity(w, r, map[string]string{"slug": err.Error()})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

type classifierInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,slug,max=50"`
}

type classifierQuery struct {
	paginationQuery
	Search string `schema:"search"`
}

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	var query classifierQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("name", "name", "slug", "id")
	categories, total, err := app.services.Catalog.ListCategories(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"categories": categories, "total_records": total}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var input classifierInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	category, err := app.services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Catalog.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	var query classifierQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("name", "name", "slug", "id")
	genres, total, err := app.services.Catalog.ListGenres(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"genres": genres, "total_records": total}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var input classifierInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	genre, err := app.services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Catalog.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var query struct {
		paginationQuery
		filters.TitleFilters
	}
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("name", "name", "year", "rating", "id")
	titles, total, err := app.services.Catalog.ListTitles(r.Context(), query.TitleFilters, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"titles": titles, "total_records": total}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	title, err := app.services.Catalog.GetTitle(r.Context(), id)
	if err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        int32    `json:"year" validate:"required,pastyear"`
		Description string   `json:"description"`
		Category    *string  `json:"category" validate:"omitempty,slug,max=50"`
		Genre       []string `json:"genre" validate:"omitempty,dive,slug,max=50"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	title, err := app.services.Catalog.CreateTitle(r.Context(), catalog.TitleParams{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genre,
	})
	if err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	var input struct {
		Name        string   `json:"name" validate:"omitempty,max=256"`
		Year        int32    `json:"year" validate:"omitempty,pastyear"`
		Description string   `json:"description"`
		Category    *string  `json:"category" validate:"omitempty,slug,max=50"`
		Genre       []string `json:"genre" validate:"omitempty,dive,slug,max=50"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	title, err := app.services.Catalog.UpdateTitle(r.Context(), id, catalog.TitleParams{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genre,
	})
	if err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, extracted := app.extractIDParam(w, r, "titleID")
	if !extracted {
		return
	}
	if err := app.services.Catalog.DeleteTitle(r.Context(), id); err != nil {
		app.handleCatalogErr(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}
