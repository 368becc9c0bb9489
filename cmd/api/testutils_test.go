package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/tokens"
)

type fakeUsersStorage struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUsersStorage() *fakeUsersStorage {
	return &fakeUsersStorage{nextID: 1, users: map[int64]*models.User{}}
}

func (f *fakeUsersStorage) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) Insert(_ context.Context, username, email, firstName, lastName, bio, role string) (*models.User, error) {
	if _, err := f.GetByUsername(context.Background(), username); err == nil {
		return nil, storage.ErrConflict
	}
	user := &models.User{
		ID: f.nextID, Username: username, Email: email,
		FirstName: firstName, LastName: lastName, Bio: bio, Role: role,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersStorage) add(user *models.User) *models.User {
	user.ID = f.nextID
	f.nextID++
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}
	f.users[user.ID] = user
	return user
}

type noopMailer struct{}

func (noopMailer) Send(string, string, any) error { return nil }

type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

func newTestConfig() *config.Config {
	return &config.Config{
		AppSecret: "test-secret",
		TokenTTL:  time.Hour,
		Users: config.Users{
			ReservedUsername: "me",
			MaxUsernameLen:   150,
			MaxEmailLen:      254,
			MaxNameLen:       256,
			MaxSlugLen:       50,
		},
	}
}

func newTestApplication(t *testing.T, users *fakeUsersStorage) *Application {
	t.Helper()
	cfg := newTestConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer := tokens.New(cfg.AppSecret, cfg.TokenTTL)
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: newValidator(cfg),
		tokens:    issuer,
		Http:      &Http{log: log, cfg: cfg},
		services: &services.Services{
			Auth: auth.New(log, users, issuer, noopMailer{}, syncExecutor{}),
		},
	}
}
