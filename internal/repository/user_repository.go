package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tazeembhat/PaymentsApp/internal/models"
)

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of
// truth) and owns the transaction boundaries for the paired User+Account
// writes.
type UserWriteRepository struct {
	db       *sql.DB
	accounts *AccountRepository
}

func NewUserWriteRepository(db *sql.DB, accounts *AccountRepository) *UserWriteRepository {
	return &UserWriteRepository{db: db, accounts: accounts}
}

// Init creates the users table. The unique index on username is what
// ultimately enforces handle uniqueness; the service-level pre-check only
// exists to give callers a clean conflict response.
func (r *UserWriteRepository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to init users table: %w", err)
	}
	return nil
}

// CreateUserAndAccount inserts the user and its account in one transaction
// so neither record can be orphaned by a partial failure.
func (r *UserWriteRepository) CreateUserAndAccount(ctx context.Context, user *models.User, account *models.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO users (id, username, password, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		user.ID, user.Username, user.Password, user.FirstName, user.LastName,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := r.accounts.Create(ctx, tx, account); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit signup: %w", err)
	}
	return nil
}

// GetByCredentials matches a user on the exact username+password pair.
// Credentials are stored and compared as given.
func (r *UserWriteRepository) GetByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	query := `
		SELECT id, username, password, first_name, last_name, created_at, updated_at
		FROM users
		WHERE username = $1 AND password = $2
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, username, password).Scan(
		&user.ID, &user.Username, &user.Password, &user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserWriteRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// UpdateFields applies a partial overwrite in a single statement: nil
// fields keep their stored value, so concurrent updates can't resurrect
// values read before a competing write. Returns the row as written.
func (r *UserWriteRepository) UpdateFields(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error) {
	query := `
		UPDATE users
		SET password   = COALESCE($2, password),
		    first_name = COALESCE($3, first_name),
		    last_name  = COALESCE($4, last_name),
		    updated_at = $5
		WHERE id = $1
		RETURNING id, username, password, first_name, last_name, created_at, updated_at
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, id, password, firstName, lastName, time.Now().UTC()).Scan(
		&user.ID, &user.Username, &user.Password, &user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// DeleteUserAndAccount removes the user and its account in one transaction.
func (r *UserWriteRepository) DeleteUserAndAccount(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return ErrUserNotFound
	}

	if err := r.accounts.DeleteByUserID(ctx, tx, id); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
