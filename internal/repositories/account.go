package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/shared"
)

// AccountRepository persists [models.Account] records.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account with a generated ID and sequence.
//
// Returns [shared.ErrUserExists] when the email is taken.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	account.Email = shared.NormalizeEmail(account.Email)
	if account.Role == "" {
		account.Role = models.DefaultUserRole
	}
	if err := account.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return shared.WithTx(ctx, r.db, func(ctx context.Context, tx shared.DBTX) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, account.Email).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return shared.ErrUserExists
		}

		sequence, err := NextSequence(ctx, tx, "users")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		now := time.Now().UTC()
		account.ID = shared.GenerateID()
		account.Sequence = sequence
		account.CreatedAt = now
		account.UpdatedAt = now

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, sequence, name, email, password_hash, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, account.ID, account.Sequence, account.Name, account.Email, account.PasswordHash, account.Role, now, now)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return shared.ErrUserExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
}

// Get retrieves an account by ID.
func (r *AccountRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	return r.scanOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves an account by (normalized) email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.scanOne(ctx, `WHERE email = ?`, shared.NormalizeEmail(email))
}

// Count returns the number of accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *AccountRepository) scanOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `
		SELECT id, sequence, name, email, password_hash, role, created_at, updated_at
		FROM users
	` + where

	var a models.Account
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Sequence, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &a, nil
}
