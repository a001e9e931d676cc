package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

const accountColumns = `account_id, account_firstname, account_lastname, account_email,
	account_password, account_type, created_at, updated_at`

// AccountRepository implements ports.AccountRepository on the account table.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) ports.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `INSERT INTO account
		(account_firstname, account_lastname, account_email, account_password, account_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query,
		account.FirstName, account.LastName, account.Email, account.PasswordHash, string(account.Role))
	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("account create: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM account WHERE lower(account_email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account email exists: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE lower(account_email) = lower($1)`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account find by email: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE account_id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account find by id: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (*domain.Account, error) {
	query := `UPDATE account
		SET account_firstname = $1, account_lastname = $2, account_email = $3, updated_at = now()
		WHERE account_id = $4
		RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, firstName, lastName, email, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrAccountNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("account update profile: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account SET account_password = $1, updated_at = now() WHERE account_id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("account update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("account update password: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email,
		&a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("account %d has unknown account_type %q", a.ID, role)
	}
	a.Role = parsed
	return &a, nil
}
