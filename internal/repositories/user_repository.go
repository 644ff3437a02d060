package repositories

import (
	"context"
	"errors"

	"feedback_backend/internal/auth"
	"feedback_backend/internal/models"
	"feedback_backend/internal/storage"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when nobody has that username.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	// Create stores a new user. The password must already be in its stored form.
	Create(ctx context.Context, user *models.User) error
	// Authenticate returns nil, nil when the credentials do not match.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	// CachedCount is the number of users seen by the last store read or write.
	CachedCount() int
}

type UserRepositoryImpl struct {
	users *collection[models.User]
}

func NewUserRepository(store storage.Storage, key string) UserRepository {
	return &UserRepositoryImpl{users: newCollection[models.User](store, key)}
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.users.reload(ctx)
	if err != nil {
		return nil, err
	}
	if u := findUser(users, username); u != nil {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *UserRepositoryImpl) ExistsUsername(ctx context.Context, username string) (bool, error) {
	users, err := r.users.reload(ctx)
	if err != nil {
		return false, err
	}
	return findUser(users, username) != nil, nil
}

// Create checks uniqueness and writes the grown collection in one queued
// cycle. Two processes registering the same username at once can still both
// succeed.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.users.update(ctx, func(users []models.User) ([]models.User, error) {
		if findUser(users, user.Username) != nil {
			return nil, ErrUsernameTaken
		}
		return append(users, *user), nil
	})
}

func (r *UserRepositoryImpl) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

func (r *UserRepositoryImpl) CachedCount() int {
	return r.users.size()
}

func findUser(users []models.User, username string) *models.User {
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u
		}
	}
	return nil
}
