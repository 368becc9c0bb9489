package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"yamdb/proj/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// ConfirmationCode derives a single-use signup code from a snapshot of the
// user's mutable state. It is not stored anywhere: verification recomputes it,
// so any profile change (which bumps UpdatedAt) invalidates codes issued
// before the change.
func (i *Issuer) ConfirmationCode(u *models.User) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(mac, "%d:%s:%s:%s:%d", u.ID, u.Username, u.Email, u.Role, u.UpdatedAt.UnixNano())
	return hex.EncodeToString(mac.Sum(nil))
}

func (i *Issuer) VerifyConfirmationCode(u *models.User, code string) bool {
	return hmac.Equal([]byte(i.ConfirmationCode(u)), []byte(code))
}

// NewAccessToken issues the bearer token exchanged for a valid confirmation
// code. Handlers treat it as opaque apart from the uid claim.
func (i *Issuer) NewAccessToken(u *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": u.ID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	})
	return token.SignedString(i.secret)
}

// ParseUserID validates an access token and extracts the uid claim.
func (i *Issuer) ParseUserID(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(uid), nil
}
