package ports

import (
	"context"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
// Emails are passed already normalized.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// UpdateProfile returns the row as stored after the update, role included.
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
