package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/goldennest/internal/domain"
)

// FavoriteRepository persists saved listings.
type FavoriteRepository interface {
	// Add is idempotent; it reports whether a new row was created.
	Add(ctx context.Context, userID, propertyID string) (bool, error)
	Remove(ctx context.Context, userID, propertyID string) error
	// ListProperties returns saved listings that are APPROVED or owned by userID.
	ListProperties(ctx context.Context, userID string) ([]domain.Property, error)
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository constructs repository.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, propertyID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
        INSERT INTO favorites (user_id, property_id) VALUES ($1,$2)
        ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`, userID, propertyID)
	return err
}

func (r *favoriteRepository) ListProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s,
               (SELECT pi.url FROM property_images pi WHERE pi.property_id = p.id ORDER BY pi.sort, pi.created_at LIMIT 1),
               u.id, u.email, u.name
             FROM favorites f
             JOIN properties p ON p.id = f.property_id
             LEFT JOIN users u ON u.id = p.owner_id
             WHERE f.user_id=$1 AND (p.status='APPROVED' OR p.owner_id=$1)
             ORDER BY f.created_at DESC`, propertyColumns)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPropertyCards(rows)
}
