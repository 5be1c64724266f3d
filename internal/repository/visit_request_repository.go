package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/goldennest/internal/domain"
)

// VisitRequestRepository persists viewing requests.
type VisitRequestRepository interface {
	Create(ctx context.Context, visit *domain.VisitRequest) error
	GetByID(ctx context.Context, id string) (*domain.VisitRequest, error)
	// Transition writes visit only while the stored status still equals from,
	// returning ErrStale otherwise.
	Transition(ctx context.Context, visit *domain.VisitRequest, from domain.VisitStatus) error
	ListByUser(ctx context.Context, userID string) ([]domain.VisitRequest, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.VisitRequest, error)
}

type visitRequestRepository struct {
	pool *pgxpool.Pool
}

// NewVisitRequestRepository constructs repository.
func NewVisitRequestRepository(pool *pgxpool.Pool) VisitRequestRepository {
	return &visitRequestRepository{pool: pool}
}

const visitColumns = `id, property_id, user_id, preferred_at, scheduled_at, status, note, created_at, updated_at`

func (r *visitRequestRepository) Create(ctx context.Context, visit *domain.VisitRequest) error {
	const query = `
        INSERT INTO visit_requests (property_id, user_id, preferred_at, scheduled_at, status, note)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		visit.PropertyID,
		visit.UserID,
		visit.PreferredAt,
		visit.ScheduledAt,
		visit.Status,
		visit.Note,
	).Scan(&visit.ID, &visit.CreatedAt, &visit.UpdatedAt)
}

func (r *visitRequestRepository) GetByID(ctx context.Context, id string) (*domain.VisitRequest, error) {
	var visit domain.VisitRequest
	row := r.pool.QueryRow(ctx, `SELECT `+visitColumns+` FROM visit_requests WHERE id=$1`, id)
	if err := scanVisit(row, &visit); err != nil {
		return nil, mapReadError(err)
	}
	return &visit, nil
}

func (r *visitRequestRepository) Transition(ctx context.Context, visit *domain.VisitRequest, from domain.VisitStatus) error {
	const query = `
        UPDATE visit_requests SET scheduled_at=$1, status=$2, note=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		visit.ScheduledAt,
		visit.Status,
		visit.Note,
		visit.ID,
		from,
	).Scan(&visit.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStale
	}
	return mapReadError(err)
}

func (r *visitRequestRepository) ListByUser(ctx context.Context, userID string) ([]domain.VisitRequest, error) {
	return r.list(ctx, `SELECT `+visitColumns+` FROM visit_requests WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *visitRequestRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.VisitRequest, error) {
	return r.list(ctx, `SELECT `+visitColumns+` FROM visit_requests WHERE property_id=$1 ORDER BY created_at DESC`, propertyID)
}

func (r *visitRequestRepository) list(ctx context.Context, query string, arg any) ([]domain.VisitRequest, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.VisitRequest{}
	for rows.Next() {
		var visit domain.VisitRequest
		if err := scanVisit(rows, &visit); err != nil {
			return nil, err
		}
		result = append(result, visit)
	}
	return result, rows.Err()
}

func scanVisit(row pgx.Row, v *domain.VisitRequest) error {
	return row.Scan(
		&v.ID,
		&v.PropertyID,
		&v.UserID,
		&v.PreferredAt,
		&v.ScheduledAt,
		&v.Status,
		&v.Note,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}
