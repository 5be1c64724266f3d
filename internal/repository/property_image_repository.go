package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/goldennest/internal/domain"
)

// PropertyImageRepository persists gallery entries.
type PropertyImageRepository interface {
	Create(ctx context.Context, image *domain.PropertyImage) error
	GetByID(ctx context.Context, id string) (*domain.PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.PropertyImage, error)
	Delete(ctx context.Context, id string) error
}

type propertyImageRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyImageRepository constructs repository.
func NewPropertyImageRepository(pool *pgxpool.Pool) PropertyImageRepository {
	return &propertyImageRepository{pool: pool}
}

func (r *propertyImageRepository) Create(ctx context.Context, image *domain.PropertyImage) error {
	const query = `
        INSERT INTO property_images (property_id, url, storage_key, sort)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		image.PropertyID,
		image.URL,
		image.StorageKey,
		image.Sort,
	).Scan(&image.ID, &image.CreatedAt)
}

func (r *propertyImageRepository) GetByID(ctx context.Context, id string) (*domain.PropertyImage, error) {
	const query = `
        SELECT id, property_id, url, storage_key, sort, created_at
        FROM property_images WHERE id=$1`
	var image domain.PropertyImage
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&image.ID,
		&image.PropertyID,
		&image.URL,
		&image.StorageKey,
		&image.Sort,
		&image.CreatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &image, nil
}

func (r *propertyImageRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.PropertyImage, error) {
	const query = `
        SELECT id, property_id, url, storage_key, sort, created_at
        FROM property_images WHERE property_id=$1
        ORDER BY sort ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, mapReadError(err)
	}
	defer rows.Close()

	result := []domain.PropertyImage{}
	for rows.Next() {
		var image domain.PropertyImage
		if err := rows.Scan(
			&image.ID,
			&image.PropertyID,
			&image.URL,
			&image.StorageKey,
			&image.Sort,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, image)
	}
	return result, rows.Err()
}

func (r *propertyImageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM property_images WHERE id=$1`, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
