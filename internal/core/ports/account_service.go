package ports

import (
	"context"
	"time"

	"github.com/cse-motors/dealership/internal/core/domain"
)

type AccountService interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*domain.AuthResult, error)
	GetAccount(ctx context.Context, actor domain.Identity, id int64) (*domain.Account, error)
	UpdateProfile(ctx context.Context, actor domain.Identity, in domain.ProfileInput) (*domain.ProfileResult, error)
	UpdatePassword(ctx context.Context, actor domain.Identity, id int64, password string) error
}

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, time.Time, error)
}

// IdentityResolver turns a raw token into a request identity. It never
// returns an authenticated identity together with a non-nil error.
type IdentityResolver interface {
	ResolveIdentity(token string) (domain.Identity, error)
}
