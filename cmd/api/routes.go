package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) getRoutes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.issueToken)
		})

		r.Route("/users", func(r chi.Router) {
			// /users/me must be registered before the {username} routes so
			// chi does not treat "me" as a username
			r.With(app.requireAuthenticatedUser).Route("/me", func(r chi.Router) {
				r.Get("/", app.getMe)
				r.Patch("/", app.updateMe)
			})
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdminUser)
				r.Get("/", app.listUsers)
				r.Post("/", app.createUser)
				r.Route("/{username}", func(r chi.Router) {
					r.Get("/", app.getUser)
					r.Patch("/", app.updateUser)
					r.Delete("/", app.deleteUser)
				})
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.With(app.requireAdminUser).Post("/", app.createCategory)
			r.With(app.requireAdminUser).Delete("/{slug}", app.deleteCategory)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.With(app.requireAdminUser).Post("/", app.createGenre)
			r.With(app.requireAdminUser).Delete("/{slug}", app.deleteGenre)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.With(app.requireAdminUser).Post("/", app.createTitle)
			r.Route("/{titleID}", func(r chi.Router) {
				r.Get("/", app.getTitle)
				r.With(app.requireAdminUser).Patch("/", app.updateTitle)
				r.With(app.requireAdminUser).Delete("/", app.deleteTitle)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", app.listReviews)
					r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", app.getReview)
						r.With(app.requireAuthenticatedUser).Patch("/", app.updateReview)
						r.With(app.requireAuthenticatedUser).Delete("/", app.deleteReview)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", app.listComments)
							r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
							r.Route("/{commentID}", func(r chi.Router) {
								r.Get("/", app.getComment)
								r.With(app.requireAuthenticatedUser).Patch("/", app.updateComment)
								r.With(app.requireAuthenticatedUser).Delete("/", app.deleteComment)
							})
						})
					})
				})
			})
		})
	})

	return router
}
