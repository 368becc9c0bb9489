package users

import (
	"context"
	"log/slog"
	"testing"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	nextID int64
	users  map[string]*models.User
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{nextID: 1, users: map[string]*models.User{}}
}

func (f *fakeStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Insert(_ context.Context, username, email, firstName, lastName, bio, role string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, storage.ErrConflict
	}
	user := &models.User{ID: f.nextID, Username: username, Email: email, FirstName: firstName, LastName: lastName, Bio: bio, Role: role}
	f.nextID++
	f.users[username] = user
	return user, nil
}

func (f *fakeStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.User, int, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	for name, u := range f.users {
		if u.ID == user.ID {
			cp := *user
			delete(f.users, name)
			f.users[user.Username] = &cp
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateDefaultsRole(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	user, err := svc.Create(context.Background(), CreateUserParams{Username: "reader", Email: "r@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestCreateConflicts(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Create(context.Background(), CreateUserParams{Username: "reader", Email: "r@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserParams{Username: "reader", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Create(context.Background(), CreateUserParams{Username: "other", Email: "r@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateRoleChangeGate(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Create(context.Background(), CreateUserParams{Username: "reader", Email: "r@example.com"})
	require.NoError(t, err)

	t.Run("SelfServiceCannotChangeRole", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), "reader", UpdateUserParams{Role: strPtr(models.RoleAdmin)}, false)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, updated.Role)
	})
	t.Run("AdminCanChangeRole", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), "reader", UpdateUserParams{Role: strPtr(models.RoleModerator)}, true)
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, updated.Role)
	})
}

func TestGetAndDeleteNotFound(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "ghost"), ErrUserNotFound)
}
