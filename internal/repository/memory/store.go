// Package memory provides process-local implementations of the repository
// interfaces. It backs the API when no Postgres DSN is configured and serves as
// the fake for service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/repository"
)

// Store holds every table behind one mutex.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[string]*domain.User
	properties map[string]*domain.Property
	images     map[string]*domain.PropertyImage
	inquiries  map[string]*domain.Inquiry
	visits     map[string]*domain.VisitRequest
	favorites  map[favoriteKey]time.Time
	seq        int64
}

type favoriteKey struct {
	userID     string
	propertyID string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:        time.Now,
		users:      map[string]*domain.User{},
		properties: map[string]*domain.Property{},
		images:     map[string]*domain.PropertyImage{},
		inquiries:  map[string]*domain.Inquiry{},
		visits:     map[string]*domain.VisitRequest{},
		favorites:  map[favoriteKey]time.Time{},
	}
}

// Users returns the account repository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Properties returns the listing repository.
func (s *Store) Properties() repository.PropertyRepository { return propertyRepo{s} }

// Images returns the gallery repository.
func (s *Store) Images() repository.PropertyImageRepository { return imageRepo{s} }

// Inquiries returns the inquiry repository.
func (s *Store) Inquiries() repository.InquiryRepository { return inquiryRepo{s} }

// Visits returns the visit request repository.
func (s *Store) Visits() repository.VisitRequestRepository { return visitRepo{s} }

// Favorites returns the favorites repository.
func (s *Store) Favorites() repository.FavoriteRepository { return favoriteRepo{s} }

// Set exposes the store as a full repository set.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:      s.Users(),
		Properties: s.Properties(),
		Images:     s.Images(),
		Inquiries:  s.Inquiries(),
		Visits:     s.Visits(),
		Favorites:  s.Favorites(),
	}
}

// stamp returns a strictly increasing timestamp so ordering by creation time is stable.
func (s *Store) stamp() time.Time {
	s.seq++
	return s.now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.stamp()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.s.users[user.ID] = &copied
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// SetRole changes an account's role, as an operator would in the database.
func (s *Store) SetRole(email string, role domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u.Role = role
			u.UpdatedAt = s.stamp()
			return true
		}
	}
	return false
}

type propertyRepo struct{ s *Store }

func (r propertyRepo) Create(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = r.s.stamp()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	copied.Images = nil
	copied.Owner = nil
	r.s.properties[p.ID] = &copied
	return nil
}

func (r propertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r propertyRepo) UpdateAdvanced(_ context.Context, id string, d repository.AdvancedDetails) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Tenure = d.Tenure
	p.LeaseStartDate = d.LeaseStartDate
	p.LeaseTermYears = d.LeaseTermYears
	p.LeaseExpiryDate = d.LeaseExpiryDate
	p.FloorPlans = append([]string{}, d.FloorPlans...)
	p.VirtualTours = append([]string{}, d.VirtualTours...)
	p.Documents = append([]string{}, d.Documents...)
	p.UpdatedAt = r.s.stamp()
	return nil
}

func (r propertyRepo) UpdateStatus(_ context.Context, id string, status domain.PropertyStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	p.UpdatedAt = r.s.stamp()
	return nil
}

func (r propertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.properties, id)
	for k, img := range r.s.images {
		if img.PropertyID == id {
			delete(r.s.images, k)
		}
	}
	for k, inq := range r.s.inquiries {
		if inq.PropertyID == id {
			delete(r.s.inquiries, k)
		}
	}
	for k, v := range r.s.visits {
		if v.PropertyID == id {
			delete(r.s.visits, k)
		}
	}
	for k := range r.s.favorites {
		if k.propertyID == id {
			delete(r.s.favorites, k)
		}
	}
	return nil
}

func (r propertyRepo) List(_ context.Context, f repository.PropertyFilter) ([]domain.Property, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Property{}
	for _, p := range r.s.properties {
		if matchesFilter(p, f) {
			matched = append(matched, r.s.card(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r propertyRepo) Summary(_ context.Context) (domain.StatusSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out domain.StatusSummary
	for _, p := range r.s.properties {
		switch p.Status {
		case domain.PropertyStatusPending:
			out.Pending++
		case domain.PropertyStatusApproved:
			out.Approved++
		case domain.PropertyStatusRejected:
			out.Rejected++
		}
		out.Total++
	}
	return out, nil
}

func matchesFilter(p *domain.Property, f repository.PropertyFilter) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
		return false
	}
	if city := strings.ToLower(strings.TrimSpace(f.City)); city != "" && !strings.Contains(strings.ToLower(p.City), city) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" &&
		!strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
		return false
	}
	if t := strings.TrimSpace(f.Type); t != "" && !strings.EqualFold(p.PropertyType, t) && !strings.EqualFold(p.ListingType, t) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// card copies p with its cover image and owner attached. Callers hold s.mu.
func (s *Store) card(p *domain.Property) domain.Property {
	out := *p
	if images := s.gallery(p.ID); len(images) > 0 {
		out.Images = images[:1]
	}
	if owner, ok := s.users[p.OwnerID]; ok {
		out.Owner = &domain.User{ID: owner.ID, Email: owner.Email, Name: owner.Name}
	}
	return out
}

// gallery returns a listing's images by sort then creation. Callers hold s.mu.
func (s *Store) gallery(propertyID string) []domain.PropertyImage {
	out := []domain.PropertyImage{}
	for _, img := range s.images {
		if img.PropertyID == propertyID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sort != out[j].Sort {
			return out[i].Sort < out[j].Sort
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type imageRepo struct{ s *Store }

func (r imageRepo) Create(_ context.Context, img *domain.PropertyImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[img.PropertyID]; !ok {
		return pgx.ErrNoRows
	}
	img.ID = uuid.NewString()
	img.CreatedAt = r.s.stamp()
	copied := *img
	r.s.images[img.ID] = &copied
	return nil
}

func (r imageRepo) GetByID(_ context.Context, id string) (*domain.PropertyImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	img, ok := r.s.images[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *img
	return &copied, nil
}

func (r imageRepo) ListByProperty(_ context.Context, propertyID string) ([]domain.PropertyImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.gallery(propertyID), nil
}

func (r imageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.images[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.images, id)
	return nil
}

type inquiryRepo struct{ s *Store }

func (r inquiryRepo) Create(_ context.Context, inq *domain.Inquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inq.ID = uuid.NewString()
	inq.CreatedAt = r.s.stamp()
	copied := *inq
	r.s.inquiries[inq.ID] = &copied
	return nil
}

func (r inquiryRepo) ListByProperty(_ context.Context, propertyID string) ([]domain.Inquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Inquiry{}
	for _, inq := range r.s.inquiries {
		if inq.PropertyID == propertyID {
			out = append(out, *inq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type visitRepo struct{ s *Store }

func (r visitRepo) Create(_ context.Context, v *domain.VisitRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = uuid.NewString()
	v.CreatedAt = r.s.stamp()
	v.UpdatedAt = v.CreatedAt
	copied := *v
	r.s.visits[v.ID] = &copied
	return nil
}

func (r visitRepo) GetByID(_ context.Context, id string) (*domain.VisitRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.visits[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *v
	return &copied, nil
}

func (r visitRepo) Transition(_ context.Context, v *domain.VisitRequest, from domain.VisitStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.visits[v.ID]
	if !ok || stored.Status != from {
		return repository.ErrStale
	}
	stored.ScheduledAt = v.ScheduledAt
	stored.Status = v.Status
	stored.Note = v.Note
	stored.UpdatedAt = r.s.stamp()
	v.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r visitRepo) ListByUser(_ context.Context, userID string) ([]domain.VisitRequest, error) {
	return r.list(func(v *domain.VisitRequest) bool { return v.UserID == userID }), nil
}

func (r visitRepo) ListByProperty(_ context.Context, propertyID string) ([]domain.VisitRequest, error) {
	return r.list(func(v *domain.VisitRequest) bool { return v.PropertyID == propertyID }), nil
}

func (r visitRepo) list(keep func(*domain.VisitRequest) bool) []domain.VisitRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.VisitRequest{}
	for _, v := range r.s.visits {
		if keep(v) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type favoriteRepo struct{ s *Store }

func (r favoriteRepo) Add(_ context.Context, userID, propertyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := favoriteKey{userID: userID, propertyID: propertyID}
	if _, ok := r.s.favorites[key]; ok {
		return false, nil
	}
	r.s.favorites[key] = r.s.stamp()
	return true, nil
}

func (r favoriteRepo) Remove(_ context.Context, userID, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.favorites, favoriteKey{userID: userID, propertyID: propertyID})
	return nil
}

func (r favoriteRepo) ListProperties(_ context.Context, userID string) ([]domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type saved struct {
		property domain.Property
		at       time.Time
	}
	rows := []saved{}
	for key, at := range r.s.favorites {
		if key.userID != userID {
			continue
		}
		p, ok := r.s.properties[key.propertyID]
		if !ok || (p.Status != domain.PropertyStatusApproved && p.OwnerID != userID) {
			continue
		}
		rows = append(rows, saved{property: r.s.card(p), at: at})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })

	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.property)
	}
	return out, nil
}
