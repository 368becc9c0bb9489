package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureUser(app *Application, captured **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = app.contextGetUser(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	users := newFakeUsersStorage()
	app := newTestApplication(t, users)
	user := users.add(&models.User{Username: "reader", Email: "reader@example.com", Role: models.RoleUser})

	t.Run("NoHeaderMeansAnonymous", func(t *testing.T) {
		var got *models.User
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		app.Authenticate(captureUser(app, &got)).ServeHTTP(rr, r)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, got.IsAnonymous())
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic abc")
		app.Authenticate(capturePassThrough(t)).ServeHTTP(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		app.Authenticate(capturePassThrough(t)).ServeHTTP(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := app.tokens.NewAccessToken(user)
		require.NoError(t, err)
		var got *models.User
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		app.Authenticate(captureUser(app, &got)).ServeHTTP(rr, r)
		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("TokenForDeletedUser", func(t *testing.T) {
		ghost := &models.User{ID: 999, Username: "ghost"}
		token, err := app.tokens.NewAccessToken(ghost)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		app.Authenticate(capturePassThrough(t)).ServeHTTP(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// capturePassThrough fails the test if the middleware lets the request
// through to the handler.
func capturePassThrough(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request unexpectedly reached the handler")
	})
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app := newTestApplication(t, newFakeUsersStorage())

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = app.contextSetUser(r, models.AnonymousUser)
	app.requireAuthenticatedUser(capturePassThrough(t)).ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdminUser(t *testing.T) {
	app := newTestApplication(t, newFakeUsersStorage())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	cases := []struct {
		name     string
		user     *models.User
		wantCode int
	}{
		{"OrdinaryUser", &models.User{ID: 1, Role: models.RoleUser}, http.StatusForbidden},
		{"Moderator", &models.User{ID: 2, Role: models.RoleModerator}, http.StatusForbidden},
		{"Admin", &models.User{ID: 3, Role: models.RoleAdmin}, http.StatusOK},
		{"SuperuserWithUserRole", &models.User{ID: 4, Role: models.RoleUser, IsSuperuser: true}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = app.contextSetUser(r, tc.user)
			app.requireAdminUser(ok).ServeHTTP(rr, r)
			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}
