package domain

import (
	"strings"
	"time"
)

type ProfileStatus string

const (
	ProfileStatusDraft     ProfileStatus = "draft"
	ProfileStatusReview    ProfileStatus = "review"
	ProfileStatusPublished ProfileStatus = "published"
	ProfileStatusUnlisted  ProfileStatus = "unlisted"
)

func (s ProfileStatus) IsValid() bool {
	switch s {
	case ProfileStatusDraft, ProfileStatusReview, ProfileStatusPublished, ProfileStatusUnlisted:
		return true
	}
	return false
}

// ParseProfileStatus accepts any letter case ("Published", "published").
func ParseProfileStatus(s string) (ProfileStatus, error) {
	status := ProfileStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type Psychologist struct {
	ID                  int64         `json:"id"`
	Slug                string        `json:"profile_slug"`
	Name                string        `json:"name"`
	Credentials         string        `json:"credentials"`
	About               string        `json:"about"`
	HeadshotURL         string        `json:"headshot"`
	CoverImageURL       string        `json:"cover_image,omitempty"`
	Specializations     []string      `json:"specializations"`
	Languages           []string      `json:"languages"`
	Location            string        `json:"location"`
	TimeZone            string        `json:"time_zone"`
	YearsOfExperience   int           `json:"years_of_experience"`
	ServicesOffered     []string      `json:"services_offered"`
	Rate                string        `json:"rate"`
	AvailabilityNote    string        `json:"availability_note"`
	ContactEmail        string        `json:"contact_email"`
	Website             string        `json:"website,omitempty"`
	AcceptingNewClients bool          `json:"accepting_new_clients"`
	Featured            bool          `json:"featured"`
	Status              ProfileStatus `json:"status"`
	Views30Days         int           `json:"views_30_days"`
	Bookings30Days      int           `json:"bookings_30_days"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"last_updated"`
}

func (p Psychologist) IsPublished() bool {
	return p.Status == ProfileStatusPublished
}

type CreatePsychologistDTO struct {
	Name                string        `json:"name" binding:"required,min=2"`
	Credentials         string        `json:"credentials"`
	About               string        `json:"about"`
	HeadshotURL         string        `json:"headshot" binding:"omitempty,url"`
	CoverImageURL       string        `json:"cover_image" binding:"omitempty,url"`
	Specializations     []string      `json:"specializations"`
	Languages           []string      `json:"languages"`
	Location            string        `json:"location"`
	TimeZone            string        `json:"time_zone"`
	YearsOfExperience   int           `json:"years_of_experience" binding:"min=0"`
	ServicesOffered     []string      `json:"services_offered"`
	Rate                string        `json:"rate"`
	AvailabilityNote    string        `json:"availability_note"`
	ContactEmail        string        `json:"contact_email" binding:"omitempty,email"`
	Website             string        `json:"website" binding:"omitempty,url"`
	AcceptingNewClients bool          `json:"accepting_new_clients"`
	Featured            bool          `json:"featured"`
	Status              ProfileStatus `json:"status" binding:"omitempty,oneof=draft review published unlisted"`
}

type UpdatePsychologistDTO struct {
	Slug                *string   `json:"profile_slug"`
	Name                *string   `json:"name" binding:"omitempty,min=2"`
	Credentials         *string   `json:"credentials"`
	About               *string   `json:"about"`
	HeadshotURL         *string   `json:"headshot" binding:"omitempty,url"`
	CoverImageURL       *string   `json:"cover_image" binding:"omitempty,url"`
	Specializations     *[]string `json:"specializations"`
	Languages           *[]string `json:"languages"`
	Location            *string   `json:"location"`
	TimeZone            *string   `json:"time_zone"`
	YearsOfExperience   *int      `json:"years_of_experience" binding:"omitempty,min=0"`
	ServicesOffered     *[]string `json:"services_offered"`
	Rate                *string   `json:"rate"`
	AvailabilityNote    *string   `json:"availability_note"`
	ContactEmail        *string   `json:"contact_email" binding:"omitempty,email"`
	Website             *string   `json:"website" binding:"omitempty,url"`
	AcceptingNewClients *bool     `json:"accepting_new_clients"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

type ToggleFeaturedDTO struct {
	Featured *bool `json:"is_featured" binding:"required"`
}

type ToggleAcceptingDTO struct {
	AcceptingClients *bool `json:"accepting_clients" binding:"required"`
}

// AdminPsychologistFilter drives the unscoped admin listing; it sees every status.
type AdminPsychologistFilter struct {
	Status *ProfileStatus `json:"status"`
	Search *string        `json:"search"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
