package validator

import (
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
}

type titleForm struct {
	Name string `json:"name" validate:"required"`
	Year int32  `json:"year" validate:"required,pastyear"`
}

func newValidator(t *testing.T) *govalidator.Validate {
	t.Helper()
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	require.NoError(t, v.RegisterValidation("username", NewUsernameValidator("me", 150)))
	require.NoError(t, v.RegisterValidation("slug", ValidateSlug))
	require.NoError(t, v.RegisterValidation("pastyear", ValidatePastYear))
	return v
}

func TestUsernameValidator(t *testing.T) {
	v := newValidator(t)
	cases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"plain", "capybara", true},
		{"allowed punctuation", "user.name@host+x-1", true},
		{"space", "bad name", false},
		{"comma", "bad,name", false},
		{"reserved", "me", false},
		{"reserved uppercase", "ME", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(v, signupForm{Username: tc.username, Email: "a@b.com"})
			if tc.valid {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, "username")
			}
		})
	}
}

func TestPastYearValidator(t *testing.T) {
	v := newValidator(t)
	thisYear := int32(time.Now().Year())

	assert.Empty(t, ValidateStruct(v, titleForm{Name: "ok", Year: thisYear}))
	assert.Empty(t, ValidateStruct(v, titleForm{Name: "ok", Year: 1925}))

	errs := ValidateStruct(v, titleForm{Name: "bad", Year: thisYear + 1})
	assert.Contains(t, errs, "year")
}

func TestErrorMessagesCarryBounds(t *testing.T) {
	v := newValidator(t)
	type reviewForm struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"required,gte=1,lte=10"`
	}
	errs := ValidateStruct(v, reviewForm{Text: "x", Score: 11})
	require.Contains(t, errs, "score")
	assert.Equal(t, "Value should be less than or equal to 10", errs["score"])

	errs = ValidateStruct(v, reviewForm{Text: "x", Score: -2})
	require.Contains(t, errs, "score")
	assert.Equal(t, "Value should be greater than or equal to 1", errs["score"])
}
