package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/goldennest/internal/auth"
	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/repository/memory"
	"github.com/spec-kit/goldennest/internal/storage"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeSummaryStore struct {
	cached      *domain.StatusSummary
	getErr      error
	invalidated int
}

func (f *fakeSummaryStore) Get(context.Context) (domain.StatusSummary, bool, error) {
	if f.getErr != nil {
		return domain.StatusSummary{}, false, f.getErr
	}
	if f.cached == nil {
		return domain.StatusSummary{}, false, nil
	}
	return *f.cached, true, nil
}

func (f *fakeSummaryStore) Set(_ context.Context, s domain.StatusSummary) error {
	f.cached = &s
	return nil
}

func (f *fakeSummaryStore) Invalidate(context.Context) error {
	f.cached = nil
	f.invalidated++
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	signed  []string
	deleted []string
	failDel bool
}

func (f *fakeStorage) PresignPut(_ context.Context, key, contentType string, expire time.Duration) (storage.PresignedUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signed = append(f.signed, key+"|"+contentType)
	return storage.PresignedUpload{URL: "https://bucket.example/" + key + "?sig=1", ExpiresAt: time.Now().Add(expire)}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.failDel {
		return errors.New("bucket unreachable")
	}
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return storage.JoinURL("https://cdn.example", key)
}

type fixture struct {
	store      *memory.Store
	tokens     *auth.TokenService
	summary    *fakeSummaryStore
	bucket     *fakeStorage
	recorded   *recordedEvents
	auth       *AuthService
	properties *PropertyService
	images     *ImageService
	inquiries  *InquiryService
	visits     *VisitService
	favorites  *FavoriteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenService([]byte("test-secret"), 15, 14)
	dispatcher := events.NewInMemoryDispatcher(nil)
	recorded := &recordedEvents{}
	for _, et := range events.AllEventTypes() {
		dispatcher.Subscribe(et, recorded.handle)
	}
	summary := &fakeSummaryStore{}
	bucket := &fakeStorage{}

	properties := NewPropertyService(PropertyDependencies{
		PropertyRepo: store.Properties(),
		ImageRepo:    store.Images(),
		Summary:      summary,
		Dispatcher:   dispatcher,
	})
	return &fixture{
		store:      store,
		tokens:     tokens,
		summary:    summary,
		bucket:     bucket,
		recorded:   recorded,
		auth:       NewAuthService(store.Users(), tokens, bcrypt.MinCost, nil),
		properties: properties,
		images:     NewImageService(properties, store.Images(), bucket, time.Minute, nil),
		inquiries:  NewInquiryService(properties, store.Inquiries(), dispatcher),
		visits:     NewVisitService(properties, store.Visits(), dispatcher),
		favorites:  NewFavoriteService(properties, store.Favorites()),
	}
}

// user registers an account and returns its identity.
func (f *fixture) user(t *testing.T, email string, role domain.Role) domain.Identity {
	t.Helper()
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{Email: email, Password: "pw", Name: email})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	if role != domain.RoleUser {
		f.store.SetRole(email, role)
	}
	return domain.Identity{UserID: u.ID, Subject: u.Email, Name: u.Name, Role: role}
}

// listing creates a property owned by owner and moves it to status.
func (f *fixture) listing(t *testing.T, owner domain.Identity, title string, status domain.PropertyStatus) *domain.Property {
	t.Helper()
	ctx := context.Background()
	p, err := f.properties.Create(ctx, owner, PropertyInput{Title: title, Address1: "1 Main St", City: "Sydney", Price: 100})
	if err != nil {
		t.Fatalf("Create(%s): %v", title, err)
	}
	if status != domain.PropertyStatusPending {
		if err := f.store.Properties().UpdateStatus(ctx, p.ID, status); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		p.Status = status
	}
	return p
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError %s, got %T %v", code, err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("code = %s, want %s (%v)", domainErr.Code, code, err)
	}
}
