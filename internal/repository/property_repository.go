package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/goldennest/internal/domain"
)

// PropertyFilter captures listing search parameters.
type PropertyFilter struct {
	Status   *domain.PropertyStatus
	OwnerID  *string
	City     string
	Query    string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// AdvancedDetails are the tenure and media fields edited after submission.
type AdvancedDetails struct {
	Tenure          *string
	LeaseStartDate  *time.Time
	LeaseTermYears  *int
	LeaseExpiryDate *time.Time
	FloorPlans      []string
	VirtualTours    []string
	Documents       []string
}

// PropertyRepository encapsulates listing persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	UpdateAdvanced(ctx context.Context, id string, details AdvancedDetails) error
	UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error
	// Delete removes a listing; its gallery, leads and favorites go with it.
	Delete(ctx context.Context, id string) error
	// List returns one page of listings with the total match count. Only the
	// cover image is populated on each listing.
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int64, error)
	Summary(ctx context.Context) (domain.StatusSummary, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository instantiates repository.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.price::float8, p.bedrooms, p.bathrooms,
               p.address1, p.city, p.state, p.zip, p.area_sqft, p.lat, p.lng, p.property_type,
               p.listing_type, p.location_tag, p.year_built, p.status, p.tenure, p.lease_start_date,
               p.lease_term_years, p.lease_expiry_date, p.floor_plans, p.virtual_tours, p.documents,
               p.created_at, p.updated_at`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (owner_id, title, description, price, bedrooms, bathrooms, address1, city, state, zip,
            area_sqft, lat, lng, property_type, listing_type, location_tag, year_built, status,
            tenure, lease_start_date, lease_term_years, lease_expiry_date, floor_plans, virtual_tours, documents)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		property.OwnerID,
		property.Title,
		property.Description,
		property.Price,
		property.Bedrooms,
		property.Bathrooms,
		property.Address1,
		property.City,
		property.State,
		property.Zip,
		property.AreaSqft,
		property.Lat,
		property.Lng,
		property.PropertyType,
		property.ListingType,
		property.LocationTag,
		property.YearBuilt,
		property.Status,
		property.Tenure,
		property.LeaseStartDate,
		property.LeaseTermYears,
		property.LeaseExpiryDate,
		nonNil(property.FloorPlans),
		nonNil(property.VirtualTours),
		nonNil(property.Documents),
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id=$1`
	var property domain.Property
	if err := scanProperty(r.pool.QueryRow(ctx, query, id), &property); err != nil {
		return nil, mapReadError(err)
	}
	return &property, nil
}

func (r *propertyRepository) UpdateAdvanced(ctx context.Context, id string, details AdvancedDetails) error {
	const query = `
        UPDATE properties SET tenure=$1, lease_start_date=$2, lease_term_years=$3, lease_expiry_date=$4,
            floor_plans=$5, virtual_tours=$6, documents=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		details.Tenure,
		details.LeaseStartDate,
		details.LeaseTermYears,
		details.LeaseExpiryDate,
		nonNil(details.FloorPlans),
		nonNil(details.VirtualTours),
		nonNil(details.Documents),
		id,
	)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE properties SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("p.status=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("p.owner_id=$%d", len(args)))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		args = append(args, "%"+strings.ToLower(city)+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(p.city) LIKE $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.title) LIKE %s OR LOWER(p.description) LIKE %s)", placeholder, placeholder))
	}
	if t := strings.TrimSpace(filter.Type); t != "" {
		args = append(args, strings.ToLower(t))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.property_type)=%s OR LOWER(p.listing_type)=%s)", placeholder, placeholder))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties p WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s,
               (SELECT pi.url FROM property_images pi WHERE pi.property_id = p.id ORDER BY pi.sort, pi.created_at LIMIT 1),
               u.id, u.email, u.name
             FROM properties p
             LEFT JOIN users u ON u.id = p.owner_id
             WHERE %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`,
		propertyColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanPropertyCards(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *propertyRepository) Summary(ctx context.Context) (domain.StatusSummary, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE status='PENDING'),
            COUNT(*) FILTER (WHERE status='APPROVED'),
            COUNT(*) FILTER (WHERE status='REJECTED'),
            COUNT(*)
        FROM properties`
	var s domain.StatusSummary
	err := r.pool.QueryRow(ctx, query).Scan(&s.Pending, &s.Approved, &s.Rejected, &s.Total)
	return s, err
}

func propertyScanTargets(p *domain.Property) []any {
	return []any{
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Address1,
		&p.City,
		&p.State,
		&p.Zip,
		&p.AreaSqft,
		&p.Lat,
		&p.Lng,
		&p.PropertyType,
		&p.ListingType,
		&p.LocationTag,
		&p.YearBuilt,
		&p.Status,
		&p.Tenure,
		&p.LeaseStartDate,
		&p.LeaseTermYears,
		&p.LeaseExpiryDate,
		&p.FloorPlans,
		&p.VirtualTours,
		&p.Documents,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanProperty(row pgx.Row, p *domain.Property) error {
	return row.Scan(propertyScanTargets(p)...)
}

// scanPropertyCards reads rows shaped as propertyColumns followed by cover url and owner columns.
func scanPropertyCards(rows pgx.Rows) ([]domain.Property, error) {
	result := []domain.Property{}
	for rows.Next() {
		var (
			p          domain.Property
			cover      *string
			ownerID    *string
			ownerEmail *string
			ownerName  *string
		)
		targets := append(propertyScanTargets(&p), &cover, &ownerID, &ownerEmail, &ownerName)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		if cover != nil {
			p.Images = []domain.PropertyImage{{PropertyID: p.ID, URL: *cover}}
		}
		if ownerID != nil {
			p.Owner = &domain.User{ID: *ownerID, Email: deref(ownerEmail), Name: deref(ownerName)}
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
