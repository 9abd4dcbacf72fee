package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// newAnalytics returns an analytics service over env's repositories with its
// clock pinned to now.
func newAnalytics(env *testEnv, now time.Time) *AnalyticsServiceImpl {
	a := NewAnalyticsService(env.repos.Analytics, env.repos.Psychologist, env.repos.Booking, env.publisher, zap.NewNop())
	a.now = func() time.Time { return now }
	return a
}

func track(t *testing.T, a *AnalyticsServiceImpl, dto domain.TrackEventDTO) {
	t.Helper()
	if _, err := a.Track(context.Background(), dto); err != nil {
		t.Fatalf("Track(%s): %v", dto.Type, err)
	}
}

func TestAnalyticsService_Track(t *testing.T) {
	env := newTestEnv(t)
	a := newAnalytics(env, time.Now())

	event, err := a.Track(context.Background(), domain.TrackEventDTO{Type: domain.EventPageView, Page: "/"})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if event.ID == "" || event.CreatedAt.IsZero() {
		t.Errorf("event = %+v", event)
	}
	if env.publisher.count(domain.EventPageView) != 1 {
		t.Error("event was not published")
	}

	if _, err := a.Track(context.Background(), domain.TrackEventDTO{Type: "mouse_wiggle"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown type error = %v", err)
	}
}

func TestAnalyticsService_TrackSurvivesPublisherFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	a := newAnalytics(env, time.Now())

	track(t, a, domain.TrackEventDTO{Type: domain.EventDirectoryView})

	if got := env.storedEvents(t, domain.EventDirectoryView); len(got) != 1 {
		t.Errorf("stored events = %d, want 1", len(got))
	}
}

func TestAnalyticsService_Platform(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	old := newAnalytics(env, now.Add(-10*24*time.Hour))
	track(t, old, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(2))})

	a := newAnalytics(env, now)
	for _, session := range []string{"a", "b", "a"} {
		track(t, a, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(1)), SessionID: session})
	}
	track(t, a, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(2))})
	for i := 0; i < 3; i++ {
		track(t, a, domain.TrackEventDTO{Type: domain.EventEmailSent})
	}
	track(t, a, domain.TrackEventDTO{Type: domain.EventEmailFailed})
	track(t, a, domain.TrackEventDTO{Type: domain.EventBookingCreated, PsychologistID: ptr(int64(1))})

	got, err := a.Platform(context.Background(), domain.TimeRangeWeek)
	if err != nil {
		t.Fatalf("Platform: %v", err)
	}

	if got.TotalPublishedPsychologists != 99 {
		t.Errorf("published = %d", got.TotalPublishedPsychologists)
	}
	if got.TotalProfileViews != 4 {
		t.Errorf("profile views = %d, want 4", got.TotalProfileViews)
	}
	wantTop := []domain.ProfileViews{
		{ID: 1, Name: "Dr. Jane Doe", Views: 3},
		{ID: 2, Name: "Dr. John Smith", Views: 1},
	}
	if !reflect.DeepEqual(got.TopViewedProfiles, wantTop) {
		t.Errorf("top profiles = %+v", got.TopViewedProfiles)
	}
	if got.EmailDeliverySuccessRate != 75 {
		t.Errorf("success rate = %v, want 75", got.EmailDeliverySuccessRate)
	}

	if len(got.ViewsOverTime) != 7 {
		t.Fatalf("views series has %d days", len(got.ViewsOverTime))
	}
	last := got.ViewsOverTime[6]
	if last.Date != now.Format(dateLayout) || last.Count != 4 {
		t.Errorf("today's views = %+v", last)
	}
	if got.BookingsOverTime[6].Count != 1 {
		t.Errorf("today's bookings = %+v", got.BookingsOverTime[6])
	}

	wantSpecs := []domain.NamedCount{
		{Name: "Anxiety", Count: 3},
		{Name: "CBT", Count: 3},
		{Name: "Depression", Count: 3},
		{Name: "Couples Therapy", Count: 1},
		{Name: "Family Counseling", Count: 1},
	}
	if !reflect.DeepEqual(got.TopSpecializationsViewed, wantSpecs) {
		t.Errorf("top specializations = %+v", got.TopSpecializationsViewed)
	}
}

func TestAnalyticsService_Portal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newAnalytics(env, time.Now())

	views := []struct{ session, referrer string }{
		{"s1", "google.com"},
		{"s2", "google.com"},
		{"s1", ""},
	}
	for _, v := range views {
		track(t, a, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(1)), SessionID: v.session, Referrer: v.referrer})
	}
	track(t, a, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(2)), SessionID: "s3"})
	track(t, a, domain.TrackEventDTO{Type: domain.EventTimeOnPage, PsychologistID: ptr(int64(1)), Properties: map[string]any{"seconds": 60}})
	track(t, a, domain.TrackEventDTO{Type: domain.EventTimeOnPage, PsychologistID: ptr(int64(1)), Properties: map[string]any{"seconds": 90.0}})
	track(t, a, domain.TrackEventDTO{Type: domain.EventBookingCreated, PsychologistID: ptr(int64(1))})
	for _, section := range []string{"website", "website", "phone", "about"} {
		track(t, a, domain.TrackEventDTO{Type: domain.EventSectionClick, PsychologistID: ptr(int64(1)), Section: section})
	}

	if _, err := env.services.Booking.Create(ctx, validBooking(1)); err != nil {
		t.Fatalf("Create booking: %v", err)
	}

	dash, err := a.PortalDashboard(ctx, 1, domain.TimeRangeMonth)
	if err != nil {
		t.Fatalf("PortalDashboard: %v", err)
	}
	if dash.ProfileViews != 3 || dash.UniqueVisitors != 2 {
		t.Errorf("views=%d unique=%d, want 3 and 2", dash.ProfileViews, dash.UniqueVisitors)
	}
	if dash.AvgTimeOnPage != "1m15s" {
		t.Errorf("avg time on page = %q", dash.AvgTimeOnPage)
	}
	// One tracked above plus one from the booking service.
	if dash.BookSubmissions != 2 {
		t.Errorf("book submissions = %d, want 2", dash.BookSubmissions)
	}
	if len(dash.LastBookings) != 1 || dash.LastBookings[0].VisitorName != "Alex Visitor" {
		t.Errorf("last bookings = %+v", dash.LastBookings)
	}

	stats, err := a.PortalAnalytics(ctx, 1, domain.TimeRangeDay)
	if err != nil {
		t.Fatalf("PortalAnalytics: %v", err)
	}
	wantRefs := []domain.NamedCount{{Name: "google.com", Count: 2}, {Name: directReferrer, Count: 1}}
	if !reflect.DeepEqual(stats.TopReferrers, wantRefs) {
		t.Errorf("referrers = %+v", stats.TopReferrers)
	}
	if stats.ClicksOnLinks != (domain.LinkClicks{Website: 2, Phone: 1}) {
		t.Errorf("clicks = %+v", stats.ClicksOnLinks)
	}
	if len(stats.ProfileViewsOverTime) != 1 || stats.ProfileViewsOverTime[0].Count != 3 {
		t.Errorf("views over time = %+v", stats.ProfileViewsOverTime)
	}
}

func TestAnalyticsService_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	a := newAnalytics(env, time.Now())

	track(t, a, domain.TrackEventDTO{Type: domain.EventPageView, Page: "/about", SessionID: "s1"})
	track(t, a, domain.TrackEventDTO{Type: domain.EventProfileView, PsychologistID: ptr(int64(7)), Referrer: "news, weekly"})

	var buf bytes.Buffer
	if err := a.ExportCSV(context.Background(), domain.TimeRangeWeek, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], csvHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "page_view" || rows[1][5] != "/about" || rows[1][3] != "" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][3] != "7" || rows[2][6] != "news, weekly" {
		t.Errorf("second row = %v", rows[2])
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		ok, failed int
		want       float64
	}{
		{0, 0, 0},
		{1, 0, 100},
		{2, 1, 66.7},
		{1, 3, 25},
	}
	for _, tt := range tests {
		if got := successRate(tt.ok, tt.failed); got != tt.want {
			t.Errorf("successRate(%d, %d) = %v, want %v", tt.ok, tt.failed, got, tt.want)
		}
	}
}
