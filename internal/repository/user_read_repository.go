package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tazeembhat/PaymentsApp/internal/models"
	walletredis "github.com/tazeembhat/PaymentsApp/internal/redis"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository handles all read operations for users.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type UserReadRepository struct {
	db    *sql.DB
	cache *walletredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: walletredis.NewViewCache[models.UserView](redisClient, 0),
	}
}

// GetByID returns a UserView from Redis first, then PostgreSQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + id

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, username, first_name, last_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var view models.UserView
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.Username, &view.FirstName, &view.LastName,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Warm the cache
	r.CacheUserView(ctx, &view)
	return &view, nil
}

// Search returns every user whose first or last name contains filter as a
// substring; an empty filter matches everyone. The password column is never
// selected. Results are unbounded.
func (r *UserReadRepository) Search(ctx context.Context, filter string) ([]models.DirectoryEntry, error) {
	query := `
		SELECT id, username, first_name, last_name
		FROM users
		WHERE first_name LIKE '%' || $1 || '%' OR last_name LIKE '%' || $1 || '%'
		ORDER BY username
	`
	rows, err := r.db.QueryContext(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	entries := []models.DirectoryEntry{}
	for rows.Next() {
		var e models.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return entries, nil
}

// CacheUserView stores or refreshes the Redis read model for a user.
// Called synchronously by the write path after every mutation, and by
// the projector when it rewarms a view.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}

// InvalidateUserView removes the Redis read model entry for a deleted user.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userViewKeyPrefix+userID)
}
