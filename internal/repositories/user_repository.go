package repositories

import (
	"context"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

// UserRepository persists local user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUniversityID(ctx context.Context, universityID string) (*models.User, error)

	// Uniqueness checks used by signup (first failure wins)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	Delete(ctx context.Context, id uint) error
}
