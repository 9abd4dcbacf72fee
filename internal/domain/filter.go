package domain

import "strings"

// ExperienceRange is inclusive on both ends. A nil bound is absent; a bound of
// zero is present and applies.
type ExperienceRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

func (r ExperienceRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

func (r ExperienceRange) Contains(years int) bool {
	if r.Min != nil && years < *r.Min {
		return false
	}
	if r.Max != nil && years > *r.Max {
		return false
	}
	return true
}

// FilterSpec holds one optional constraint per field of a published profile.
// The zero value constrains nothing.
type FilterSpec struct {
	Specializations     []string        `json:"specializations,omitempty"`
	Languages           []string        `json:"languages,omitempty"`
	Location            string          `json:"location,omitempty"`
	Experience          ExperienceRange `json:"experience"`
	AcceptingNewClients *bool           `json:"accepting_new_clients,omitempty"`
	Search              string          `json:"search,omitempty"`
	AvailabilityNote    string          `json:"availability_note,omitempty"`
}

func (f FilterSpec) IsEmpty() bool {
	return len(nonBlank(f.Specializations)) == 0 &&
		len(nonBlank(f.Languages)) == 0 &&
		strings.TrimSpace(f.Location) == "" &&
		f.Experience.IsEmpty() &&
		f.AcceptingNewClients == nil &&
		strings.TrimSpace(f.Search) == "" &&
		strings.TrimSpace(f.AvailabilityNote) == ""
}

// Clone returns a deep copy so that a settled snapshot cannot be mutated
// through the live spec it was taken from.
func (f FilterSpec) Clone() FilterSpec {
	out := f
	out.Specializations = append([]string(nil), f.Specializations...)
	out.Languages = append([]string(nil), f.Languages...)
	if f.Experience.Min != nil {
		v := *f.Experience.Min
		out.Experience.Min = &v
	}
	if f.Experience.Max != nil {
		v := *f.Experience.Max
		out.Experience.Max = &v
	}
	if f.AcceptingNewClients != nil {
		v := *f.AcceptingNewClients
		out.AcceptingNewClients = &v
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

type SortKey string

const (
	SortRelevance      SortKey = "relevance"
	SortNameAsc        SortKey = "name-asc"
	SortNameDesc       SortKey = "name-desc"
	SortExperienceDesc SortKey = "experience-desc"
	SortFeatured       SortKey = "featured"
)

// ParseSortKey maps unknown or empty keys to SortRelevance.
func ParseSortKey(s string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortNameAsc, SortNameDesc, SortExperienceDesc, SortFeatured:
		return key
	case "featured-first", "featured,desc":
		return SortFeatured
	default:
		return SortRelevance
	}
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// DirectoryPage is one window of the filtered and sorted directory.
type DirectoryPage struct {
	Items        []Psychologist `json:"psychologists"`
	CurrentPage  int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalMatches int            `json:"total"`
	PageSize     int            `json:"limit"`
}
