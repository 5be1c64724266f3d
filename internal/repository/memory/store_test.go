package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/repository"
)

func TestUserEmailIsUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := NewStore().Users()

	if err := users.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Create(ctx, &domain.User{Email: "a@x.com"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if _, err := users.GetByEmail(ctx, "A@x.com"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("lookup must be exact, got %v", err)
	}
}

func TestPropertyListFiltersAndPages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore()
	props := store.Properties()

	seed := []domain.Property{
		{Title: "Harbour loft", City: "Sydney", Price: 900, PropertyType: "Apartment", Status: domain.PropertyStatusApproved},
		{Title: "Garden house", City: "North Sydney", Price: 1500, PropertyType: "House", Status: domain.PropertyStatusApproved},
		{Title: "Beach shack", City: "Perth", Price: 300, PropertyType: "House", Status: domain.PropertyStatusApproved},
		{Title: "Hidden", City: "Sydney", Price: 100, Status: domain.PropertyStatusPending},
	}
	for i := range seed {
		if err := props.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := store.Images().Create(ctx, &domain.PropertyImage{PropertyID: seed[0].ID, URL: "b.jpg", Sort: 2}); err != nil {
		t.Fatalf("image: %v", err)
	}
	if err := store.Images().Create(ctx, &domain.PropertyImage{PropertyID: seed[0].ID, URL: "a.jpg", Sort: 1}); err != nil {
		t.Fatalf("image: %v", err)
	}

	approved := domain.PropertyStatusApproved
	minPrice := 500.0

	cases := []struct {
		name   string
		filter repository.PropertyFilter
		want   []string
		total  int64
	}{
		{name: "approved newest first", filter: repository.PropertyFilter{Status: &approved}, want: []string{"Beach shack", "Garden house", "Harbour loft"}, total: 3},
		{name: "city contains", filter: repository.PropertyFilter{Status: &approved, City: "sydney"}, want: []string{"Garden house", "Harbour loft"}, total: 2},
		{name: "type and price", filter: repository.PropertyFilter{Status: &approved, Type: "house", MinPrice: &minPrice}, want: []string{"Garden house"}, total: 1},
		{name: "query", filter: repository.PropertyFilter{Query: "LOFT"}, want: []string{"Harbour loft"}, total: 1},
		{name: "second page", filter: repository.PropertyFilter{Status: &approved, Limit: 2, Offset: 2}, want: []string{"Harbour loft"}, total: 3},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			items, total, err := props.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tc.total {
				t.Fatalf("total = %d, want %d", total, tc.total)
			}
			if len(items) != len(tc.want) {
				t.Fatalf("items = %d, want %d", len(items), len(tc.want))
			}
			for i, title := range tc.want {
				if items[i].Title != title {
					t.Fatalf("items[%d] = %q, want %q", i, items[i].Title, title)
				}
			}
		})
	}

	items, _, _ := props.List(ctx, repository.PropertyFilter{Query: "harbour"})
	if cover := items[0].CoverImageURL(); cover == nil || *cover != "a.jpg" {
		t.Fatalf("cover = %v, want a.jpg", cover)
	}
}

func TestFavoritesIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore()
	p := domain.Property{Title: "x", Status: domain.PropertyStatusApproved}
	if err := store.Properties().Create(ctx, &p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	favs := store.Favorites()

	created, err := favs.Add(ctx, "u1", p.ID)
	if err != nil || !created {
		t.Fatalf("first add: created=%v err=%v", created, err)
	}
	created, err = favs.Add(ctx, "u1", p.ID)
	if err != nil || created {
		t.Fatalf("second add: created=%v err=%v", created, err)
	}
	list, _ := favs.ListProperties(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("favorites = %d, want 1", len(list))
	}
	if err := favs.Remove(ctx, "u1", p.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := favs.Remove(ctx, "u1", p.ID); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	list, _ = favs.ListProperties(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("favorites = %d, want 0", len(list))
	}
}

func TestFavoritesHideListingsOutsideApproved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore()
	p := domain.Property{Title: "x", OwnerID: "owner", Status: domain.PropertyStatusApproved}
	if err := store.Properties().Create(ctx, &p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	favs := store.Favorites()
	for _, user := range []string{"owner", "buyer"} {
		if _, err := favs.Add(ctx, user, p.ID); err != nil {
			t.Fatalf("Add(%s): %v", user, err)
		}
	}
	if err := store.Properties().UpdateStatus(ctx, p.ID, domain.PropertyStatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if list, _ := favs.ListProperties(ctx, "buyer"); len(list) != 0 {
		t.Fatalf("buyer sees %d rejected favorites", len(list))
	}
	if list, _ := favs.ListProperties(ctx, "owner"); len(list) != 1 {
		t.Fatalf("owner favorites = %d, want 1", len(list))
	}
}

func TestVisitTransitionRequiresExpectedStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	visits := NewStore().Visits()

	v := &domain.VisitRequest{PropertyID: "p", UserID: "u", Status: domain.VisitStatusPending}
	if err := visits.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}

	confirm := *v
	confirm.Status = domain.VisitStatusConfirmed
	if err := visits.Transition(ctx, &confirm, domain.VisitStatusPending); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	decline := *v
	decline.Status = domain.VisitStatusDeclined
	if err := visits.Transition(ctx, &decline, domain.VisitStatusPending); !errors.Is(err, repository.ErrStale) {
		t.Fatalf("second Transition = %v, want ErrStale", err)
	}
	missing := domain.VisitRequest{ID: "missing", Status: domain.VisitStatusDeclined}
	if err := visits.Transition(ctx, &missing, domain.VisitStatusPending); !errors.Is(err, repository.ErrStale) {
		t.Fatalf("missing Transition = %v, want ErrStale", err)
	}

	stored, err := visits.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.VisitStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", stored.Status)
	}
}

func TestPropertyDeleteCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore()

	p := &domain.Property{OwnerID: "owner", Title: "Loft", Status: domain.PropertyStatusApproved}
	if err := store.Properties().Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Images().Create(ctx, &domain.PropertyImage{PropertyID: p.ID, URL: "a.jpg"}); err != nil {
		t.Fatalf("image Create: %v", err)
	}
	if _, err := store.Favorites().Add(ctx, "buyer", p.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.Properties().Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Properties().GetByID(ctx, p.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("GetByID after delete = %v", err)
	}
	if imgs, _ := store.Images().ListByProperty(ctx, p.ID); len(imgs) != 0 {
		t.Fatalf("images left behind: %+v", imgs)
	}
	if favs, _ := store.Favorites().ListProperties(ctx, "buyer"); len(favs) != 0 {
		t.Fatalf("favorites left behind: %+v", favs)
	}
	if err := store.Properties().Delete(ctx, p.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("second Delete = %v, want ErrNoRows", err)
	}
}
