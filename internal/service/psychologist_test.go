package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"mindconnect/internal/cache"
	"mindconnect/internal/domain"
	"mindconnect/pkg/validator"
)

func TestPsychologistService_CreateGeneratesUniqueSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.services.Psychologist.Create(ctx, domain.CreatePsychologistDTO{Name: "Dr. Jane Doe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Slug != "dr-jane-doe-2" {
		t.Errorf("slug = %q, want dr-jane-doe-2", p.Slug)
	}
	if p.Status != domain.ProfileStatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}

	p, err = env.services.Psychologist.Create(ctx, domain.CreatePsychologistDTO{Name: "Доктор"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Slug != defaultSlug {
		t.Errorf("slug of non-ASCII name = %q, want %q", p.Slug, defaultSlug)
	}

	_, err = env.services.Psychologist.Create(ctx, domain.CreatePsychologistDTO{Name: "X"})
	var verrs validator.Errors
	if !errors.As(err, &verrs) {
		t.Errorf("short name error = %v, want validation errors", err)
	}
}

func TestPsychologistService_SlugRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Psychologist

	draft, err := svc.Create(ctx, domain.CreatePsychologistDTO{Name: "Dr. New Person"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"taken by another profile", "dr-john-smith", domain.ErrSlugTaken},
		{"malformed", "Bad Slug", domain.ErrInvalidInput},
		{"free", "dr-new", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, draft.ID, domain.UpdatePsychologistDTO{Slug: ptr(tt.slug)})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Update slug %q error = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}

	if _, err := svc.UpdateStatus(ctx, draft.ID, "Published"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	_, err = svc.Update(ctx, draft.ID, domain.UpdatePsychologistDTO{Slug: ptr("dr-renamed")})
	if !errors.Is(err, domain.ErrSlugImmutable) {
		t.Errorf("renaming a published slug error = %v, want ErrSlugImmutable", err)
	}

	p, err := svc.Update(ctx, draft.ID, domain.UpdatePsychologistDTO{Slug: ptr("dr-new"), Rate: ptr("$90/session")})
	if err != nil {
		t.Fatalf("Update with unchanged slug: %v", err)
	}
	if p.Rate != "$90/session" {
		t.Errorf("rate = %q", p.Rate)
	}
}

func TestPsychologistService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.services.Psychologist.UpdateStatus(ctx, 3, "bogus"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("bogus status error = %v", err)
	}
	if _, err := env.services.Psychologist.UpdateStatus(ctx, 999, "draft"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing profile error = %v", err)
	}

	p, err := env.services.Psychologist.UpdateStatus(ctx, 3, "published")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !p.IsPublished() {
		t.Errorf("status = %q", p.Status)
	}

	if _, err := env.services.Directory.GetBySlug(ctx, "dr-emily-white", "", ""); err != nil {
		t.Errorf("newly published profile not visible: %v", err)
	}
}

func TestPsychologistService_SetAccepting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.services.Psychologist.SetAccepting(ctx, 1, false)
	if err != nil {
		t.Fatalf("SetAccepting: %v", err)
	}
	if p.AcceptingNewClients || p.AvailabilityNote != notAcceptingNote {
		t.Errorf("after SetAccepting(false): accepting=%v note=%q", p.AcceptingNewClients, p.AvailabilityNote)
	}

	p, err = env.services.Psychologist.SetAccepting(ctx, 1, true)
	if err != nil {
		t.Fatalf("SetAccepting: %v", err)
	}
	if !p.AcceptingNewClients || p.AvailabilityNote != acceptingNote {
		t.Errorf("after SetAccepting(true): accepting=%v note=%q", p.AcceptingNewClients, p.AvailabilityNote)
	}

	if got := env.storedEvents(t, domain.EventProfileUpdated); len(got) != 2 {
		t.Errorf("profile_updated events = %d, want 2", len(got))
	}
}

func TestPsychologistService_UpdateProfileTracksEvent(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.services.Psychologist.UpdateProfile(context.Background(), 1, domain.UpdatePsychologistDTO{
		About: ptr("Updated <b>bio</b>"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.About != "Updated bbio/b" {
		t.Errorf("about = %q", p.About)
	}

	events := env.storedEvents(t, domain.EventProfileUpdated)
	if len(events) != 1 || *events[0].PsychologistID != 1 {
		t.Errorf("profile_updated events = %+v", events)
	}
}

func TestPsychologistService_UploadHeadshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, _ := env.services.Psychologist.GetByID(ctx, 1)

	url, err := env.services.Psychologist.UploadHeadshot(ctx, 1, []byte("png"), "jane.png")
	if err != nil {
		t.Fatalf("UploadHeadshot: %v", err)
	}

	after, _ := env.services.Psychologist.GetByID(ctx, 1)
	if after.HeadshotURL != url {
		t.Errorf("headshot = %q, want %q", after.HeadshotURL, url)
	}
	if len(env.storage.deleted) != 1 || env.storage.deleted[0] != before.HeadshotURL {
		t.Errorf("deleted = %v, want old headshot %q", env.storage.deleted, before.HeadshotURL)
	}

	passThrough := cache.NewDirectory(nil, env.repos.Psychologist, 0, zap.NewNop())
	noStorage := NewPsychologistService(env.repos.Psychologist, passThrough, nil, env.services.Analytics, zap.NewNop())
	if _, err := noStorage.UploadHeadshot(ctx, 1, []byte("png"), "x.png"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("upload without storage error = %v", err)
	}
}

func TestPsychologistService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.services.Psychologist.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.services.Psychologist.GetByID(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID after delete error = %v", err)
	}
	if len(env.storage.deleted) != 1 {
		t.Errorf("headshot not removed from storage: %v", env.storage.deleted)
	}

	items, total, err := env.services.Psychologist.List(ctx, domain.AdminPsychologistFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 99 || len(items) != 10 {
		t.Errorf("List = %d items of %d", len(items), total)
	}
}
