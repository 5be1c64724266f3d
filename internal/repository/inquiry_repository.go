package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/goldennest/internal/domain"
)

// InquiryRepository persists buyer inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Inquiry, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository constructs repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (property_id, user_id, name, email, phone, message)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		inquiry.PropertyID,
		inquiry.UserID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Message,
	).Scan(&inquiry.ID, &inquiry.CreatedAt)
}

func (r *inquiryRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Inquiry, error) {
	const query = `
        SELECT id, property_id, user_id, name, email, phone, message, created_at
        FROM inquiries WHERE property_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Inquiry{}
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.PropertyID,
			&inquiry.UserID,
			&inquiry.Name,
			&inquiry.Email,
			&inquiry.Phone,
			&inquiry.Message,
			&inquiry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}
