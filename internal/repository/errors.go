package repository

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrUserNotFound is returned when no user row matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when a create collides with an existing handle.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrAccountNotFound is returned when a user has no account row.
	ErrAccountNotFound = errors.New("account not found")
)

// Execer is satisfied by *sql.DB and *sql.Tx; account writes take it so the
// user repository can group the paired rows into one transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
