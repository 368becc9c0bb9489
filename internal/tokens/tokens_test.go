package tokens

import (
	"testing"
	"time"

	"yamdb/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:        1,
		Username:  "reader",
		Email:     "reader@example.com",
		Role:      models.RoleUser,
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConfirmationCodeRoundTrip(t *testing.T) {
	issuer := New("test-secret", time.Hour)
	user := testUser()
	code := issuer.ConfirmationCode(user)
	assert.True(t, issuer.VerifyConfirmationCode(user, code))
	assert.False(t, issuer.VerifyConfirmationCode(user, "bogus"))
}

func TestConfirmationCodeInvalidatedByStateChange(t *testing.T) {
	issuer := New("test-secret", time.Hour)
	user := testUser()
	code := issuer.ConfirmationCode(user)

	user.UpdatedAt = user.UpdatedAt.Add(time.Minute) // any profile edit bumps this
	assert.False(t, issuer.VerifyConfirmationCode(user, code))
}

func TestConfirmationCodeDependsOnSecret(t *testing.T) {
	user := testUser()
	code := New("secret-a", time.Hour).ConfirmationCode(user)
	assert.False(t, New("secret-b", time.Hour).VerifyConfirmationCode(user, code))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := New("test-secret", time.Hour)
	token, err := issuer.NewAccessToken(testUser())
	require.NoError(t, err)

	uid, err := issuer.ParseUserID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), uid)
}

func TestAccessTokenRejectsForeignSignature(t *testing.T) {
	token, err := New("secret-a", time.Hour).NewAccessToken(testUser())
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ParseUserID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpires(t *testing.T) {
	issuer := New("test-secret", -time.Minute)
	token, err := issuer.NewAccessToken(testUser())
	require.NoError(t, err)

	_, err = issuer.ParseUserID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
