package repository

import (
	"context"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ExistsByEmailOrUsername reports whether any user already holds the
	// given email or username.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}
