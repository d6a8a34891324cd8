package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taniku/internal/database"
	"taniku/internal/domain"
	"taniku/internal/idgen"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("email or username already registered")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type userRepository struct {
	users *database.Collection[domain.User]
	ids   *idgen.Generator
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(users *database.Collection[domain.User], ids *idgen.Generator) UserRepository {
	return &userRepository{users: users, ids: ids}
}

// conflicts reports whether another user already owns the email or username
func conflicts(users []domain.User, candidate *domain.User) bool {
	for _, u := range users {
		if u.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(u.Email, candidate.Email) || u.Username == candidate.Username {
			return true
		}
	}
	return false
}

// Create registers a new user, rejecting a duplicate email or username
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		if conflicts(users, user) {
			return nil, ErrUserAlreadyExists
		}
		for _, existing := range users {
			r.ids.Observe(existing.ID)
		}
		user.ID = r.ids.Next()
		return append(users, *user), nil
	})
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update replaces the stored user with the same id
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID != user.ID {
				continue
			}
			if conflicts(users, user) {
				return nil, ErrUserAlreadyExists
			}
			users[i] = *user
			return users, nil
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) || errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email, ignoring case
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.users.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID retrieves a user by id
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	users, err := r.users.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}
