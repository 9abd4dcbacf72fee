package service

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
	"mindconnect/internal/events"
	"mindconnect/internal/metrics"
	"mindconnect/internal/repository"
)

const (
	dateLayout       = "2006-01-02"
	topProfilesLimit = 5
	topNamesLimit    = 5
	lastBookingsSize = 5
	directReferrer   = "direct"
)

var csvHeader = []string{"id", "timestamp", "event_type", "psychologist_id", "session_id", "page", "referrer", "section"}

type AnalyticsServiceImpl struct {
	repo             repository.AnalyticsRepository
	psychologistRepo repository.PsychologistRepository
	bookingRepo      repository.BookingRepository
	publisher        events.Publisher
	logger           *zap.Logger
	now              clock
}

func NewAnalyticsService(repo repository.AnalyticsRepository, psychologistRepo repository.PsychologistRepository, bookingRepo repository.BookingRepository, publisher events.Publisher, logger *zap.Logger) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		repo:             repo,
		psychologistRepo: psychologistRepo,
		bookingRepo:      bookingRepo,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

// Track stores the event and forwards it to the publisher. Publishing is best
// effort: a failure is logged and the stored event is still returned.
func (s *AnalyticsServiceImpl) Track(ctx context.Context, dto domain.TrackEventDTO) (*domain.AnalyticsEvent, error) {
	if !dto.Type.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный тип события %q", domain.ErrInvalidInput, dto.Type)
	}

	event := domain.AnalyticsEvent{
		ID:             uuid.NewString(),
		Type:           dto.Type,
		PsychologistID: dto.PsychologistID,
		SessionID:      dto.SessionID,
		Page:           dto.Page,
		Referrer:       dto.Referrer,
		Section:        dto.Section,
		Properties:     dto.Properties,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.Save(ctx, event); err != nil {
		s.logger.Error("ошибка сохранения события", zap.String("event_type", string(event.Type)), zap.Error(err))
		return nil, fmt.Errorf("ошибка сохранения события: %w", err)
	}
	metrics.AnalyticsEventsTotal.WithLabelValues(string(event.Type)).Inc()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("ошибка публикации события", zap.String("event_id", event.ID), zap.Error(err))
	}

	return &event, nil
}

func (s *AnalyticsServiceImpl) Platform(ctx context.Context, r domain.TimeRange) (*domain.PlatformAnalytics, error) {
	now := s.now().UTC()
	since := now.Add(-r.Duration())

	published, err := s.psychologistRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения опубликованных профилей: %w", err)
	}

	recorded, err := s.repo.List(ctx, domain.EventFilter{Since: &since})
	if err != nil {
		s.logger.Error("ошибка получения событий", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения событий: %w", err)
	}

	sentStatus := domain.DeliveryStatusSent
	_, sentBookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{Status: &sentStatus, Since: &since, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок: %w", err)
	}

	byID := make(map[int64]domain.Psychologist, len(published))
	for _, p := range published {
		byID[p.ID] = p
	}

	views := ofType(recorded, domain.EventProfileView)
	viewsByProfile := make(map[int64]int)
	specViews := make(map[string]int)
	for _, e := range views {
		if e.PsychologistID == nil {
			continue
		}
		viewsByProfile[*e.PsychologistID]++
		if p, ok := byID[*e.PsychologistID]; ok {
			for _, spec := range p.Specializations {
				specViews[spec]++
			}
		}
	}

	top := make([]domain.ProfileViews, 0, len(viewsByProfile))
	for id, n := range viewsByProfile {
		name := deletedPsychologistName
		if p, ok := byID[id]; ok {
			name = p.Name
		}
		top = append(top, domain.ProfileViews{ID: id, Name: name, Views: n})
	}
	slices.SortFunc(top, func(a, b domain.ProfileViews) int {
		if c := cmp.Compare(b.Views, a.Views); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(top) > topProfilesLimit {
		top = top[:topProfilesLimit]
	}

	delivered := len(ofType(recorded, domain.EventEmailSent, domain.EventEmailResent))
	undelivered := len(ofType(recorded, domain.EventEmailFailed, domain.EventEmailResendFailed))

	return &domain.PlatformAnalytics{
		TotalPublishedPsychologists: len(published),
		TotalProfileViews:           len(views),
		BookingRequestsSent:         sentBookings,
		TopViewedProfiles:           top,
		EmailDeliverySuccessRate:    successRate(delivered, undelivered),
		ViewsOverTime:               dailySeries(views, now, r.Days()),
		BookingsOverTime:            dailySeries(ofType(recorded, domain.EventBookingCreated), now, r.Days()),
		TopSpecializationsViewed:    topNames(specViews, topNamesLimit),
	}, nil
}

func (s *AnalyticsServiceImpl) PortalDashboard(ctx context.Context, psychologistID int64, r domain.TimeRange) (*domain.PortalDashboard, error) {
	recorded, err := s.profileEvents(ctx, psychologistID, r)
	if err != nil {
		return nil, err
	}

	bookings, _, err := s.bookingRepo.List(ctx, domain.BookingFilter{PsychologistID: &psychologistID, Limit: lastBookingsSize})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок: %w", err)
	}

	last := make([]domain.PortalBooking, 0, len(bookings))
	for _, b := range bookings {
		last = append(last, domain.PortalBooking{
			ID:             b.ID,
			Timestamp:      b.CreatedAt,
			VisitorName:    b.VisitorName,
			MessagePreview: domain.MessagePreview(b.Message),
		})
	}

	views := ofType(recorded, domain.EventProfileView)
	sessions := make(map[string]struct{})
	for _, e := range views {
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
	}

	return &domain.PortalDashboard{
		ProfileViews:    len(views),
		UniqueVisitors:  len(sessions),
		AvgTimeOnPage:   averageTimeOnPage(ofType(recorded, domain.EventTimeOnPage)),
		BookSubmissions: len(ofType(recorded, domain.EventBookingCreated)),
		LastBookings:    last,
	}, nil
}

func (s *AnalyticsServiceImpl) PortalAnalytics(ctx context.Context, psychologistID int64, r domain.TimeRange) (*domain.PortalAnalytics, error) {
	recorded, err := s.profileEvents(ctx, psychologistID, r)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	views := ofType(recorded, domain.EventProfileView)
	referrers := make(map[string]int)
	for _, e := range views {
		ref := e.Referrer
		if ref == "" {
			ref = directReferrer
		}
		referrers[ref]++
	}

	var clicks domain.LinkClicks
	for _, e := range ofType(recorded, domain.EventSectionClick) {
		switch e.Section {
		case "website":
			clicks.Website++
		case "phone":
			clicks.Phone++
		}
	}

	return &domain.PortalAnalytics{
		ProfileViewsOverTime:    dailySeries(views, now, r.Days()),
		BookSubmissionsOverTime: dailySeries(ofType(recorded, domain.EventBookingCreated), now, r.Days()),
		TopReferrers:            topNames(referrers, topNamesLimit),
		ClicksOnLinks:           clicks,
	}, nil
}

// ExportCSV writes every event of the range, oldest first.
func (s *AnalyticsServiceImpl) ExportCSV(ctx context.Context, r domain.TimeRange, w io.Writer) error {
	since := s.now().UTC().Add(-r.Duration())
	recorded, err := s.repo.List(ctx, domain.EventFilter{Since: &since})
	if err != nil {
		return fmt.Errorf("ошибка получения событий: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("ошибка записи CSV: %w", err)
	}
	for _, e := range recorded {
		psychologistID := ""
		if e.PsychologistID != nil {
			psychologistID = strconv.FormatInt(*e.PsychologistID, 10)
		}
		row := []string{
			e.ID,
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(e.Type),
			psychologistID,
			e.SessionID,
			e.Page,
			e.Referrer,
			e.Section,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ошибка записи CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *AnalyticsServiceImpl) profileEvents(ctx context.Context, psychologistID int64, r domain.TimeRange) ([]domain.AnalyticsEvent, error) {
	since := s.now().UTC().Add(-r.Duration())
	recorded, err := s.repo.List(ctx, domain.EventFilter{PsychologistID: &psychologistID, Since: &since})
	if err != nil {
		s.logger.Error("ошибка получения событий профиля", zap.Int64("psychologist_id", psychologistID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения событий: %w", err)
	}
	return recorded, nil
}

func ofType(recorded []domain.AnalyticsEvent, types ...domain.EventType) []domain.AnalyticsEvent {
	var out []domain.AnalyticsEvent
	for _, e := range recorded {
		if slices.Contains(types, e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// dailySeries buckets events by UTC day over the days ending with now's day.
// Days without events are present with a zero count.
func dailySeries(recorded []domain.AnalyticsEvent, now time.Time, days int) []domain.DailyCount {
	counts := make(map[string]int, len(recorded))
	for _, e := range recorded {
		counts[e.CreatedAt.UTC().Format(dateLayout)]++
	}

	today := now.UTC().Truncate(24 * time.Hour)
	series := make([]domain.DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		series = append(series, domain.DailyCount{Date: date, Count: counts[date]})
	}
	return series
}

// topNames orders by count descending, then by name, and keeps the first limit.
func topNames(counts map[string]int, limit int) []domain.NamedCount {
	out := make([]domain.NamedCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.NamedCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.NamedCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// successRate is a percentage rounded to one decimal; zero attempts give 0.
func successRate(ok, failed int) float64 {
	total := ok + failed
	if total == 0 {
		return 0
	}
	return math.Round(float64(ok)/float64(total)*1000) / 10
}

// averageTimeOnPage reads the "seconds" property of time_on_page events.
func averageTimeOnPage(recorded []domain.AnalyticsEvent) string {
	var sum float64
	var n int
	for _, e := range recorded {
		if v, ok := seconds(e.Properties["seconds"]); ok && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return "0s"
	}
	avg := time.Duration(sum / float64(n) * float64(time.Second))
	return avg.Round(time.Second).String()
}

func seconds(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
