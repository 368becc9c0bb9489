package users

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("A user with this username already exists")
	ErrEmailTaken    = errors.New("A user with this email already exists")
)
