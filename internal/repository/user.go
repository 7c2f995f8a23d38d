package repository

import (
	"context"
	"errors"

	"identity-service/internal/domain"
)

var (
	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail and ErrDuplicatePhone surface unique-index
	// violations from the store. They are authoritative: the advisory
	// pre-checks in the pipeline can race, the index cannot.
	ErrDuplicateEmail = errors.New("email already belongs to another user")
	ErrDuplicatePhone = errors.New("phone already belongs to another user")
	// ErrUnavailable wraps infrastructure failures talking to the store.
	ErrUnavailable = errors.New("user store unavailable")
)

// UserStore defines persistence operations for User records. Email and
// phone uniqueness is enforced by the store itself; UpdateFields
// applies only non-nil fields of the update, all or nothing.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
}
