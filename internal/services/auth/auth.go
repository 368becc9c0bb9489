package auth

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type UsersStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, username, email, firstName, lastName, bio, role string) (*models.User, error)
}

type TokenIssuer interface {
	ConfirmationCode(u *models.User) string
	VerifyConfirmationCode(u *models.User, code string) bool
	NewAccessToken(u *models.User) (string, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	users        UsersStorage
	tokens       TokenIssuer
	Mailer       MailProvider
	taskExecutor TaskExecutor
}

func New(
	log *slog.Logger,
	users UsersStorage,
	tokens TokenIssuer,
	mailer MailProvider,
	taskExecutor TaskExecutor,
) *AuthService {
	return &AuthService{
		log:          log,
		users:        users,
		tokens:       tokens,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
	}
}

// sendConfirmationCode runs on the background pool; delivery is best-effort
// and failures never reach the signup caller.
func (a *AuthService) sendConfirmationCode(user *models.User) {
	code := a.tokens.ConfirmationCode(user)
	err := a.Mailer.Send(
		user.Email,
		"confirmation_code.html",
		map[string]any{
			"username":         user.Username,
			"confirmationCode": code,
		})
	if err != nil {
		a.log.Error("Error sending confirmation code email", "errMsg", err.Error(), "email", user.Email)
	}
}

// Signup registers a user and emails a confirmation code. Re-requesting with
// the exact same (username, email) pair is idempotent and just resends a
// fresh code; either field colliding with a different pair is a conflict.
func (a *AuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username)

	user, err := a.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			log.Info("username taken by another email")
			return nil, ErrUsernameTaken
		}
		log.Info("repeated signup, resending code")
		a.taskExecutor.Add(func() { a.sendConfirmationCode(user) })
		return user, nil
	case !errors.Is(err, storage.ErrNotFound):
		log.Error(err.Error())
		return nil, err
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		log.Info("email taken by another username")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}

	user, err = a.users.Insert(ctx, username, email, "", "", "", models.RoleUser)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// lost a race with a concurrent signup for the same username
			return nil, ErrUsernameTaken
		}
		log.Error(err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() { a.sendConfirmationCode(user) })
	return user, nil
}

// IssueToken exchanges a confirmation code for a bearer access token. The
// code is recomputed from the user's current state, so codes issued before
// any profile change no longer verify.
func (a *AuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	const op = "auth.AuthService.IssueToken"
	log := a.log.With("op", op, "username", username)

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if !a.tokens.VerifyConfirmationCode(user, code) {
		log.Info("confirmation code rejected")
		return "", ErrInvalidCode
	}
	token, err := a.tokens.NewAccessToken(user)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return token, nil
}

// GetUser resolves the authenticated actor for the request middleware.
func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
