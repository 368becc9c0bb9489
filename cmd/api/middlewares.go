package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/policy"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/tokens"

	"golang.org/x/time/rate"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *Application) contextSetUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *Application) contextGetUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, fmt.Errorf("%v", err), "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)
	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.cfg.Limiter.Enabled {
			ip := r.RemoteAddr
			mu.Lock()
			if _, found := clients[ip]; !found {
				clients[ip] = &client{
					limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst),
				}
			}
			clients[ip].lastSeen = time.Now()
			if !clients[ip].limiter.Allow() {
				mu.Unlock()
				app.Http.Response(w, r, nil, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the request actor from the Authorization header.
// Requests without the header proceed as the anonymous user; a malformed or
// invalid token is rejected outright.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			r = app.contextSetUser(r, models.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}
		headerParts := strings.Split(authorizationHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			app.Http.Unauthorized(w, r, "Invalid or missing authentication token")
			return
		}
		userID, err := app.tokens.ParseUserID(headerParts[1])
		if err != nil {
			if errors.Is(err, tokens.ErrInvalidToken) {
				app.Http.Unauthorized(w, r, "Invalid or missing authentication token")
				return
			}
			app.Http.ServerError(w, r, err, "")
			return
		}
		user, err := app.services.Auth.GetUser(r.Context(), userID)
		if err != nil {
			// a valid token for a deleted user is still an invalid credential
			if errors.Is(err, auth.ErrUserNotFound) {
				app.Http.Unauthorized(w, r, "Invalid or missing authentication token")
				return
			}
			app.Http.ServerError(w, r, err, "")
			return
		}
		r = app.contextSetUser(r, user)
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		if user.IsAnonymous() {
			app.Http.Unauthorized(w, r, "You must be authenticated to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAdminUser(next http.Handler) http.Handler {
	return app.requireAuthenticatedUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		if !policy.CanAdminister(user) {
			app.Http.Forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
