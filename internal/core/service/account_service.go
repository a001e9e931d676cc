package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

// PasswordHasher abstracts the credential store (bcrypt).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	VerifyNone(plain string)
}

// AccountService implements registration, login and account maintenance.
type AccountService struct {
	repo   ports.AccountRepository
	hasher PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAccountService(repo ports.AccountRepository, hasher PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens, log: log, now: time.Now}
}

// Register creates a Client account. The pre-check gives fast feedback; the
// storage unique constraint is the real guarantee and surfaces as the same error.
func (s *AccountService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" || email == "" || in.Password == "" {
		return nil, &domain.ValidationError{Fields: missingFields(map[string]string{
			"account_firstname": first,
			"account_lastname":  last,
			"account_email":     email,
			"account_password":  in.Password,
		})}
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Info().Str("email", email).Msg("duplicate registration caught by unique constraint")
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("account_id", created.ID).Msg("account registered")
	created.PasswordHash = ""
	return created, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike. Both paths perform one bcrypt comparison.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		s.hasher.VerifyNone(password)
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.VerifyNone(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Debug().Int64("account_id", account.ID).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}
	account.PasswordHash = ""

	token, exp, err := s.tokens.Issue(account.Identity())
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &domain.AuthResult{
		Account: account,
		Token:   domain.IssuedToken{Value: token, ExpiresAt: exp},
	}, nil
}

func (s *AccountService) GetAccount(ctx context.Context, actor domain.Identity, id int64) (*domain.Account, error) {
	if err := authorizeAccount(actor, id); err != nil {
		return nil, err
	}
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = ""
	return account, nil
}

// UpdateProfile replaces name and email. A fresh token is issued only when the
// actor edited their own account; its role comes from the stored row.
func (s *AccountService) UpdateProfile(ctx context.Context, actor domain.Identity, in domain.ProfileInput) (*domain.ProfileResult, error) {
	if err := authorizeAccount(actor, in.AccountID); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" || email == "" {
		return nil, &domain.ValidationError{Fields: missingFields(map[string]string{
			"account_firstname": first,
			"account_lastname":  last,
			"account_email":     email,
		})}
	}

	current, err := s.repo.FindByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if email != current.Email {
		exists, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("update profile: check email: %w", err)
		}
		if exists {
			return nil, domain.ErrDuplicateEmail
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, in.AccountID, first, last, email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	updated.PasswordHash = ""

	result := &domain.ProfileResult{Account: updated}
	if actor.AccountID == updated.ID {
		token, exp, err := s.tokens.Issue(updated.Identity())
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		result.Token = &domain.IssuedToken{Value: token, ExpiresAt: exp}
	}

	s.log.Info().
		Int64("account_id", updated.ID).
		Int64("actor_id", actor.AccountID).
		Msg("account profile updated")

	return result, nil
}

// UpdatePassword stores a new hash. Claims are unchanged so no token is issued.
func (s *AccountService) UpdatePassword(ctx context.Context, actor domain.Identity, id int64, password string) error {
	if err := authorizeAccount(actor, id); err != nil {
		return err
	}
	if password == "" {
		return domain.NewValidationError("account_password", "Password is required.")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Int64("account_id", id).Int64("actor_id", actor.AccountID).Msg("account password updated")
	return nil
}

func authorizeAccount(actor domain.Identity, id int64) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !actor.CanManage(id) {
		return domain.ErrForbidden
	}
	return nil
}

var fieldOrder = []string{"account_firstname", "account_lastname", "account_email", "account_password"}

var requiredMessages = map[string]string{
	"account_firstname": "Please provide a first name.",
	"account_lastname":  "Please provide a last name.",
	"account_email":     "A valid email is required.",
	"account_password":  "Password is required.",
}

func missingFields(values map[string]string) []domain.FieldError {
	var out []domain.FieldError
	for _, name := range fieldOrder {
		v, ok := values[name]
		if ok && v == "" {
			out = append(out, domain.FieldError{Field: name, Message: requiredMessages[name]})
		}
	}
	return out
}
