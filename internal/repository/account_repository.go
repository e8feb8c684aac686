package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tazeembhat/PaymentsApp/internal/models"
)

// AccountRepository handles the monetary account paired one-to-one with a
// user. Accounts are created and deleted alongside their owner and never
// updated in between.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS accounts (
			user_id    TEXT PRIMARY KEY,
			balance    BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to init accounts table: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, ex Execer, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, balance, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := ex.ExecContext(ctx, query, account.UserID, account.Balance, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByUserID fetches the account owned by userID.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	query := `
		SELECT user_id, balance, created_at
		FROM accounts
		WHERE user_id = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&account.UserID, &account.Balance, &account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// DeleteByUserID removes the owner's account row. A user without an account
// row is tolerated so the delete cascade stays idempotent.
func (r *AccountRepository) DeleteByUserID(ctx context.Context, ex Execer, userID string) error {
	query := `DELETE FROM accounts WHERE user_id = $1`
	if _, err := ex.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
