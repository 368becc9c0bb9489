package users

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type UsersStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, username, email, firstName, lastName, bio, role string) (*models.User, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type UsersService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UsersService {
	return &UsersService{
		log:     log,
		storage: storage,
	}
}

type CreateUserParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateUserParams carries a partial update; nil fields stay untouched.
type UpdateUserParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

func (s *UsersService) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	const op = "users.UsersService.List"
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UsersService) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	const op = "users.UsersService.Create"
	log := s.log.With("op", op, "username", params.Username)
	if params.Role == "" {
		params.Role = models.RoleUser
	}
	if _, err := s.storage.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	user, err := s.storage.Insert(ctx, params.Username, params.Email, params.FirstName, params.LastName, params.Bio, params.Role)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UsersService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UsersService.Get"
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to the named user. allowRoleChange is false
// for the self-service profile endpoint: ordinary users cannot raise their
// own tier.
func (s *UsersService) Update(ctx context.Context, username string, params UpdateUserParams, allowRoleChange bool) (*models.User, error) {
	const op = "users.UsersService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Role != nil && allowRoleChange {
		user.Role = *params.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, ErrEmailTaken
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UsersService) Delete(ctx context.Context, username string) error {
	const op = "users.UsersService.Delete"
	if err := s.storage.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}
