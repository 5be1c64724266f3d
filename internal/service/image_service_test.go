package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/goldennest/internal/domain"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

func TestPresignUpload(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	other := f.user(t, "u@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	_, err := f.images.PresignUpload(ctx, owner, p.ID, "doc.pdf", "application/pdf")
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.images.PresignUpload(ctx, other, p.ID, "a.jpg", "image/jpeg")
	requireCode(t, err, apperrors.CodeForbidden)

	ticket, err := f.images.PresignUpload(ctx, owner, p.ID, "Front.JPG", "image/jpeg")
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	prefix := "properties/" + p.ID + "/"
	if !strings.HasPrefix(ticket.StorageKey, prefix) || !strings.HasSuffix(ticket.StorageKey, ".jpg") {
		t.Fatalf("storage key = %q", ticket.StorageKey)
	}
	if ticket.PublicURL != "https://cdn.example/"+ticket.StorageKey {
		t.Fatalf("public url = %q", ticket.PublicURL)
	}
	if !strings.Contains(ticket.UploadURL, ticket.StorageKey) || !ticket.ExpiresAt.After(time.Now()) {
		t.Fatalf("ticket = %+v", ticket)
	}
	if len(f.bucket.signed) != 1 || f.bucket.signed[0] != ticket.StorageKey+"|image/jpeg" {
		t.Fatalf("signed = %v", f.bucket.signed)
	}
}

func TestPresignWithoutStorage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	owner := f.user(t, "o@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	images := NewImageService(f.properties, f.store.Images(), nil, 0, nil)
	_, err := images.PresignUpload(context.Background(), owner, p.ID, "a.png", "image/png")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
	requireCode(t, err, apperrors.CodeStorageUnavailable)
}

func TestRegisterAndDeleteImages(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@x.com", domain.RoleUser)
	p := f.listing(t, owner, "P", domain.PropertyStatusApproved)

	_, err := f.images.Register(ctx, owner, p.ID, ImageInput{})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.images.Register(ctx, owner, p.ID, ImageInput{StorageKey: "properties/other/x.jpg"})
	requireCode(t, err, apperrors.CodeValidation)

	external, err := f.images.Register(ctx, owner, p.ID, ImageInput{URL: "https://img.example/a.jpg"})
	if err != nil {
		t.Fatalf("Register external: %v", err)
	}
	key := "properties/" + p.ID + "/k.jpg"
	stored, err := f.images.Register(ctx, owner, p.ID, ImageInput{StorageKey: key})
	if err != nil {
		t.Fatalf("Register stored: %v", err)
	}
	if stored.URL != "https://cdn.example/"+key || stored.Sort != external.Sort+1 {
		t.Fatalf("stored = %+v (external sort %d)", stored, external.Sort)
	}
	front := 0
	cover, err := f.images.Register(ctx, owner, p.ID, ImageInput{URL: "https://img.example/cover.jpg", Sort: &front})
	if err != nil {
		t.Fatalf("Register cover: %v", err)
	}

	gallery, err := f.images.List(ctx, domain.Identity{}, p.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(gallery) != 3 || gallery[1].ID != cover.ID || gallery[2].ID != stored.ID {
		t.Fatalf("gallery = %+v", gallery)
	}

	f.bucket.failDel = true
	if err := f.images.Delete(ctx, owner, p.ID, stored.ID); err != nil {
		t.Fatalf("Delete should tolerate bucket failure: %v", err)
	}
	if len(f.bucket.deleted) != 1 || f.bucket.deleted[0] != key {
		t.Fatalf("deleted = %v", f.bucket.deleted)
	}
	if err := f.images.Delete(ctx, owner, p.ID, external.ID); err != nil {
		t.Fatalf("Delete external: %v", err)
	}
	if len(f.bucket.deleted) != 1 {
		t.Fatalf("external image must not touch the bucket")
	}

	err = f.images.Delete(ctx, owner, p.ID, stored.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}
