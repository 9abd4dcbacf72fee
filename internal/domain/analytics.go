package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventPageView          EventType = "page_view"
	EventDirectoryView     EventType = "directory_view"
	EventProfileView       EventType = "profile_view"
	EventBookClick         EventType = "book_click"
	EventBookingCreated    EventType = "booking_created"
	EventBookingFailed     EventType = "booking_failed"
	EventEmailSent         EventType = "email_sent"
	EventEmailFailed       EventType = "email_failed"
	EventEmailResent       EventType = "email_resent"
	EventEmailResendFailed EventType = "email_resent_failed"
	EventSectionClick      EventType = "section_click"
	EventTimeOnPage        EventType = "time_on_page"
	EventFilterApplied     EventType = "filter_applied"
	EventSearchPerformed   EventType = "search_performed"
	EventProfileUpdated    EventType = "profile_updated"
	EventLogin             EventType = "login"
	EventLogout            EventType = "logout"
)

var knownEventTypes = map[EventType]struct{}{
	EventPageView: {}, EventDirectoryView: {}, EventProfileView: {}, EventBookClick: {},
	EventBookingCreated: {}, EventBookingFailed: {}, EventEmailSent: {}, EventEmailFailed: {},
	EventEmailResent: {}, EventEmailResendFailed: {}, EventSectionClick: {}, EventTimeOnPage: {},
	EventFilterApplied: {}, EventSearchPerformed: {}, EventProfileUpdated: {}, EventLogin: {},
	EventLogout: {},
}

func (t EventType) IsValid() bool {
	_, ok := knownEventTypes[t]
	return ok
}

type AnalyticsEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"event_type"`
	PsychologistID *int64         `json:"psychologist_id,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	Page           string         `json:"page,omitempty"`
	Referrer       string         `json:"referrer,omitempty"`
	Section        string         `json:"section,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
	CreatedAt      time.Time      `json:"timestamp"`
}

type TrackEventDTO struct {
	Type           EventType      `json:"event_type" binding:"required"`
	PsychologistID *int64         `json:"psychologist_id"`
	SessionID      string         `json:"session_id"`
	Page           string         `json:"page"`
	Referrer       string         `json:"referrer"`
	Section        string         `json:"section"`
	Properties     map[string]any `json:"properties"`
}

type EventFilter struct {
	Types          []EventType `json:"types"`
	PsychologistID *int64      `json:"psychologist_id"`
	Since          *time.Time  `json:"since"`
	Until          *time.Time  `json:"until"`
}

type TimeRange string

const (
	TimeRangeDay     TimeRange = "24h"
	TimeRangeWeek    TimeRange = "7d"
	TimeRangeMonth   TimeRange = "30d"
	TimeRangeQuarter TimeRange = "90d"
	TimeRangeYear    TimeRange = "365d"
)

func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(s); r {
	case TimeRangeDay, TimeRangeWeek, TimeRangeMonth, TimeRangeQuarter, TimeRangeYear:
		return r, nil
	case "":
		return TimeRangeWeek, nil
	default:
		return "", fmt.Errorf("%w: неизвестный период %q", ErrInvalidInput, s)
	}
}

func (r TimeRange) Duration() time.Duration {
	switch r {
	case TimeRangeDay:
		return 24 * time.Hour
	case TimeRangeMonth:
		return 30 * 24 * time.Hour
	case TimeRangeQuarter:
		return 90 * 24 * time.Hour
	case TimeRangeYear:
		return 365 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Days is the number of daily buckets used for time series; at least one.
func (r TimeRange) Days() int {
	days := int(r.Duration() / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ProfileViews struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Views int    `json:"views"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type PlatformAnalytics struct {
	TotalPublishedPsychologists int            `json:"total_published_psychologists"`
	TotalProfileViews           int            `json:"total_profile_views_last_30_days"`
	BookingRequestsSent         int            `json:"booking_requests_sent_last_30_days"`
	TopViewedProfiles           []ProfileViews `json:"top_5_most_viewed_profiles"`
	EmailDeliverySuccessRate    float64        `json:"email_delivery_success_rate"`
	ViewsOverTime               []DailyCount   `json:"views_over_time"`
	BookingsOverTime            []DailyCount   `json:"bookings_over_time"`
	TopSpecializationsViewed    []NamedCount   `json:"top_specializations_viewed"`
}

type PortalBooking struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	VisitorName    string    `json:"visitor_name"`
	MessagePreview string    `json:"message_preview"`
}

type PortalDashboard struct {
	ProfileViews    int             `json:"profile_views"`
	UniqueVisitors  int             `json:"unique_visitors"`
	AvgTimeOnPage   string          `json:"avg_time_on_page"`
	BookSubmissions int             `json:"book_submissions"`
	LastBookings    []PortalBooking `json:"last_bookings"`
}

type LinkClicks struct {
	Website int `json:"website"`
	Phone   int `json:"phone"`
}

type PortalAnalytics struct {
	ProfileViewsOverTime    []DailyCount `json:"profile_views_over_time"`
	BookSubmissionsOverTime []DailyCount `json:"book_submissions_over_time"`
	TopReferrers            []NamedCount `json:"top_referrers"`
	ClicksOnLinks           LinkClicks   `json:"clicks_on_links"`
}
