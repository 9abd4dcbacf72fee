package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mindconnect/internal/directory"
	"mindconnect/internal/domain"
)

func TestDirectoryService_Query(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page, err := env.services.Directory.Query(ctx, directory.Query{Page: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.TotalMatches != 99 || page.TotalPages != 9 || len(page.Items) != 12 {
		t.Errorf("unfiltered page = %d matches, %d pages, %d items", page.TotalMatches, page.TotalPages, len(page.Items))
	}
	if got := env.storedEvents(t, domain.EventFilterApplied); len(got) != 0 {
		t.Errorf("unfiltered query recorded %d filter events", len(got))
	}

	page, err = env.services.Directory.Query(ctx, directory.Query{
		Filters: domain.FilterSpec{Specializations: []string{"Trauma"}},
		Page:    1,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.TotalMatches != 1 || page.Items[0].Slug != "dr-john-smith" {
		t.Errorf("Trauma query = %+v", page)
	}
	if got := env.storedEvents(t, domain.EventFilterApplied); len(got) != 1 {
		t.Errorf("filter_applied events = %d, want 1", len(got))
	}
}

func TestDirectoryService_QueryTracksSearch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.Directory.Query(context.Background(), directory.Query{
		Filters: domain.FilterSpec{Search: "jane"},
		Sort:    "name-desc",
		Page:    1,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	got := env.storedEvents(t, domain.EventSearchPerformed)
	if len(got) != 1 {
		t.Fatalf("search_performed events = %d, want 1", len(got))
	}
	if got[0].Properties["query"] != "jane" || got[0].Properties["results"] != 1 {
		t.Errorf("search event properties = %v", got[0].Properties)
	}
	if env.publisher.count(domain.EventSearchPerformed) != 1 {
		t.Error("search event was not published")
	}
}

func TestDirectoryService_Featured(t *testing.T) {
	env := newTestEnv(t)

	featured, err := env.services.Directory.Featured(context.Background())
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}

	var ids []int64
	for _, p := range featured {
		ids = append(ids, p.ID)
	}
	want := []int64{1, 5, 10, 15, 20, 25, 30, 35}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("featured ids = %v, want %v", ids, want)
	}
}

func TestDirectoryService_Catalogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	specs, err := env.services.Directory.Specializations(ctx)
	if err != nil {
		t.Fatalf("Specializations: %v", err)
	}
	wantSpecs := []string{
		"Anxiety", "CBT", "Couples Therapy", "Depression", "Family Counseling",
		"Grief", "Life Transitions", "Relationships", "Stress", "Trauma",
	}
	if !reflect.DeepEqual(specs, wantSpecs) {
		t.Errorf("specializations = %v", specs)
	}

	languages, err := env.services.Directory.Languages(ctx)
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if want := []string{"English", "Spanish"}; !reflect.DeepEqual(languages, want) {
		t.Errorf("languages = %v", languages)
	}

	locations, err := env.services.Directory.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	wantLocations := []string{"Denver, CO", "Houston, TX", "Los Angeles, CA", "Miami, FL", "New York, NY", "Seattle, WA"}
	if !reflect.DeepEqual(locations, wantLocations) {
		t.Errorf("locations = %v", locations)
	}
}

func TestDirectoryService_GetBySlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.services.Directory.GetBySlug(ctx, "dr-jane-doe", "session-1", "google.com")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if p.Views30Days != 1 {
		t.Errorf("views = %d, want 1", p.Views30Days)
	}

	views := env.storedEvents(t, domain.EventProfileView)
	if len(views) != 1 || *views[0].PsychologistID != 1 || views[0].SessionID != "session-1" || views[0].Referrer != "google.com" {
		t.Errorf("profile_view events = %+v", views)
	}

	for _, slug := range []string{"dr-emily-white", "no-such-profile"} {
		if _, err := env.services.Directory.GetBySlug(ctx, slug, "", ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetBySlug(%q) error = %v, want ErrNotFound", slug, err)
		}
	}
}
