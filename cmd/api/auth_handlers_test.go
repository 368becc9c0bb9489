package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.Handler, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rr, r)
	return rr
}

func TestSignupEndpoint(t *testing.T) {
	users := newFakeUsersStorage()
	app := newTestApplication(t, users)
	routes := app.getRoutes()

	t.Run("ReservedUsernameRejected", func(t *testing.T) {
		rr := postJSON(t, routes, "/api/v1/auth/signup", map[string]string{
			"username": "me", "email": "me@example.com",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("MissingEmailRejected", func(t *testing.T) {
		rr := postJSON(t, routes, "/api/v1/auth/signup", map[string]string{"username": "reader"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("RegistersAndIsIdempotent", func(t *testing.T) {
		payload := map[string]string{"username": "reader", "email": "reader@example.com"}
		rr := postJSON(t, routes, "/api/v1/auth/signup", payload)
		assert.Equal(t, http.StatusOK, rr.Code)

		// repeating the exact pair just resends the code
		rr = postJSON(t, routes, "/api/v1/auth/signup", payload)
		assert.Equal(t, http.StatusOK, rr.Code)

		// same username under another email is a conflict
		rr = postJSON(t, routes, "/api/v1/auth/signup", map[string]string{
			"username": "reader", "email": "other@example.com",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestIssueTokenEndpoint(t *testing.T) {
	users := newFakeUsersStorage()
	app := newTestApplication(t, users)
	routes := app.getRoutes()

	rr := postJSON(t, routes, "/api/v1/auth/signup", map[string]string{
		"username": "reader", "email": "reader@example.com",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	user, err := users.GetByUsername(context.Background(), "reader")
	require.NoError(t, err)

	t.Run("UnknownUsername", func(t *testing.T) {
		rr := postJSON(t, routes, "/api/v1/auth/token", map[string]string{
			"username": "nobody", "confirmation_code": "whatever",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("WrongCode", func(t *testing.T) {
		rr := postJSON(t, routes, "/api/v1/auth/token", map[string]string{
			"username": "reader", "confirmation_code": "wrong",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("ValidCodeYieldsBearerToken", func(t *testing.T) {
		code := app.tokens.ConfirmationCode(user)
		rr := postJSON(t, routes, "/api/v1/auth/token", map[string]string{
			"username": "reader", "confirmation_code": code,
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		token, ok := resp.Data["token"].(string)
		require.True(t, ok)

		// the issued token authenticates subsequent requests
		getMe := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		getMe.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		meRR := httptest.NewRecorder()
		routes.ServeHTTP(meRR, getMe)
		assert.Equal(t, http.StatusOK, meRR.Code)
	})
}
