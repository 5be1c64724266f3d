package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/repository"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

func TestInquiryCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	valid := InquiryInput{PropertyID: p.ID, Name: "Bea", Email: "b@x.com", Message: "Still available?"}

	cases := []struct {
		name   string
		mutate func(*InquiryInput)
	}{
		{name: "missing property", mutate: func(in *InquiryInput) { in.PropertyID = "" }},
		{name: "unknown property", mutate: func(in *InquiryInput) { in.PropertyID = "nope" }},
		{name: "missing name", mutate: func(in *InquiryInput) { in.Name = " " }},
		{name: "bad email", mutate: func(in *InquiryInput) { in.Email = "bea" }},
		{name: "missing message", mutate: func(in *InquiryInput) { in.Message = "" }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := valid
			tc.mutate(&in)
			_, err := f.inquiries.Create(ctx, domain.Identity{}, in)
			requireCode(t, err, apperrors.CodeValidation)
		})
	}

	guest, err := f.inquiries.Create(ctx, domain.Identity{}, valid)
	if err != nil {
		t.Fatalf("guest Create: %v", err)
	}
	if guest.UserID != nil {
		t.Fatalf("guest inquiry attached to user %s", *guest.UserID)
	}
	member, err := f.inquiries.Create(ctx, buyer, valid)
	if err != nil {
		t.Fatalf("member Create: %v", err)
	}
	if member.UserID == nil || *member.UserID != buyer.UserID {
		t.Fatalf("member inquiry user = %v", member.UserID)
	}
}

func TestInquiryListRequiresManager(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	other := f.user(t, "u@x.com", domain.RoleUser)
	admin := f.user(t, "a@x.com", domain.RoleAdmin)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	if _, err := f.inquiries.Create(ctx, domain.Identity{}, InquiryInput{PropertyID: p.ID, Name: "G", Email: "g@x.com", Message: "hi"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := f.inquiries.ListByProperty(ctx, other, p.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	for _, caller := range []domain.Identity{owner, admin} {
		list, err := f.inquiries.ListByProperty(ctx, caller, p.ID)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListByProperty as %s: %v (%d)", caller.Subject, err, len(list))
		}
	}
}

func TestVisitLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	_, err := f.visits.Create(ctx, buyer, VisitInput{PropertyID: p.ID, PreferredAtISO: "tomorrow"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.visits.Create(ctx, buyer, VisitInput{PropertyID: "nope", PreferredAtISO: "2030-05-01T10:00:00Z"})
	requireCode(t, err, apperrors.CodeValidation)

	visit, err := f.visits.Create(ctx, buyer, VisitInput{PropertyID: p.ID, PreferredAtISO: "2030-05-01T10:00:00+02:00", Note: "after work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wantPreferred := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	if visit.Status != domain.VisitStatusPending || !visit.PreferredAt.Equal(wantPreferred) || visit.UserID != buyer.UserID {
		t.Fatalf("visit = %+v", visit)
	}

	mine, err := f.visits.ListMine(ctx, buyer)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListMine: %v (%d)", err, len(mine))
	}
	_, err = f.visits.ListByProperty(ctx, buyer, p.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.visits.UpdateStatus(ctx, buyer, visit.ID, "CONFIRMED", nil)
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.visits.UpdateStatus(ctx, owner, visit.ID, "PENDING", nil)
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.visits.UpdateStatus(ctx, owner, "missing", "CONFIRMED", nil)
	requireCode(t, err, apperrors.CodeNotFound)

	confirmed, err := f.visits.UpdateStatus(ctx, owner, visit.ID, "confirmed", nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if confirmed.Status != domain.VisitStatusConfirmed || confirmed.ScheduledAt == nil || !confirmed.ScheduledAt.Equal(wantPreferred) {
		t.Fatalf("confirmed = %+v", confirmed)
	}

	_, err = f.visits.UpdateStatus(ctx, owner, visit.ID, "DECLINED", nil)
	requireCode(t, err, apperrors.CodeConflict)

	types := f.recorded.types()
	if types[len(types)-2] != events.EventVisitRequested || types[len(types)-1] != events.EventVisitStatusChanged {
		t.Fatalf("events = %v", types)
	}
}

func TestVisitConfirmWithExplicitSlot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	admin := f.user(t, "a@x.com", domain.RoleAdmin)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	visit, err := f.visits.Create(ctx, buyer, VisitInput{PropertyID: p.ID, PreferredAtISO: "2030-05-01T10:00:00Z"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	slot := time.Date(2030, 5, 2, 15, 30, 0, 0, time.UTC)
	confirmed, err := f.visits.UpdateStatus(ctx, admin, visit.ID, "CONFIRMED", &slot)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !confirmed.ScheduledAt.Equal(slot) {
		t.Fatalf("scheduledAt = %v, want %v", confirmed.ScheduledAt, slot)
	}
}

// staleVisits serves the snapshot taken at creation, as a request that read
// the row before a concurrent decision would see it.
type staleVisits struct {
	repository.VisitRequestRepository
	snapshot domain.VisitRequest
}

func (s *staleVisits) GetByID(context.Context, string) (*domain.VisitRequest, error) {
	copied := s.snapshot
	return &copied, nil
}

func TestVisitConcurrentDecisionConflicts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	visit, err := f.visits.Create(ctx, buyer, VisitInput{PropertyID: p.ID, PreferredAtISO: "2030-05-01T10:00:00Z"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher(nil)
	recorded := &recordedEvents{}
	dispatcher.Subscribe(events.EventVisitStatusChanged, recorded.handle)
	racing := NewVisitService(f.properties, &staleVisits{VisitRequestRepository: f.store.Visits(), snapshot: *visit}, dispatcher)

	if _, err := racing.UpdateStatus(ctx, owner, visit.ID, "CONFIRMED", nil); err != nil {
		t.Fatalf("first UpdateStatus: %v", err)
	}
	_, err = racing.UpdateStatus(ctx, owner, visit.ID, "DECLINED", nil)
	requireCode(t, err, apperrors.CodeConflict)

	if got := recorded.types(); len(got) != 1 {
		t.Fatalf("status events = %v, want exactly one", got)
	}
	stored, err := f.store.Visits().GetByID(ctx, visit.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.VisitStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", stored.Status)
	}
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	first := f.listing(t, owner, "First", domain.PropertyStatusApproved)
	second := f.listing(t, owner, "Second", domain.PropertyStatusApproved)

	err := f.favorites.Add(ctx, buyer, "missing")
	requireCode(t, err, apperrors.CodeNotFound)

	for _, id := range []string{first.ID, second.ID, first.ID} {
		if err := f.favorites.Add(ctx, buyer, id); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	list, err := f.favorites.List(ctx, buyer)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Second" {
		t.Fatalf("favorites = %+v", list)
	}

	if err := f.favorites.Remove(ctx, buyer, first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.favorites.Remove(ctx, buyer, first.ID); err != nil {
		t.Fatalf("Remove twice: %v", err)
	}
	list, _ = f.favorites.List(ctx, buyer)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("favorites after remove = %+v", list)
	}
}

func TestHiddenListingsRejectLeadsAndFavorites(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)

	for _, status := range []domain.PropertyStatus{domain.PropertyStatusPending, domain.PropertyStatusRejected} {
		p := f.listing(t, owner, string(status), status)

		requireCode(t, f.favorites.Add(ctx, buyer, p.ID), apperrors.CodeNotFound)

		_, err := f.inquiries.Create(ctx, domain.Identity{}, InquiryInput{PropertyID: p.ID, Name: "G", Email: "g@x.com", Message: "hi"})
		requireCode(t, err, apperrors.CodeValidation)

		_, err = f.visits.Create(ctx, buyer, VisitInput{PropertyID: p.ID, PreferredAtISO: "2030-05-01T10:00:00Z"})
		requireCode(t, err, apperrors.CodeValidation)

		if err := f.favorites.Add(ctx, owner, p.ID); err != nil {
			t.Fatalf("owner Add(%s): %v", status, err)
		}
	}

	list, err := f.favorites.List(ctx, buyer)
	if err != nil || len(list) != 0 {
		t.Fatalf("buyer favorites = %+v, %v", list, err)
	}
	list, err = f.favorites.List(ctx, owner)
	if err != nil || len(list) != 2 {
		t.Fatalf("owner favorites = %d, %v", len(list), err)
	}
}

func TestFavoriteHiddenAfterRejection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	buyer := f.user(t, "b@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	if err := f.favorites.Add(ctx, buyer, p.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.store.Properties().UpdateStatus(ctx, p.ID, domain.PropertyStatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	list, err := f.favorites.List(ctx, buyer)
	if err != nil || len(list) != 0 {
		t.Fatalf("favorites = %+v, %v", list, err)
	}
}
