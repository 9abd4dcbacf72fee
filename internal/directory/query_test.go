package directory

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"mindconnect/internal/domain"
)

// hundredProfiles returns 100 published records. Every fifth record is tagged
// Trauma; among those, multiples of 25 have 2 years of experience and the rest
// between 10 and 12. Records 35 and 95 are featured.
func hundredProfiles() []domain.Psychologist {
	out := make([]domain.Psychologist, 0, 100)
	for i := 0; i < 100; i++ {
		p := profile(int64(i), fmt.Sprintf("Dr. Profile %03d", i), 15, []string{"Stress"}, []string{"English"}, "Denver, CO")
		if i%5 == 0 {
			p.Specializations = []string{"Grief", "Trauma"}
			p.YearsOfExperience = 10 + i%3
			if i%25 == 0 {
				p.YearsOfExperience = 2
			}
		} else {
			p.YearsOfExperience = i % 10
		}
		p.Featured = i == 35 || i == 95
		out = append(out, p)
	}
	return out
}

func TestRun_TraumaWithTenYearsScenario(t *testing.T) {
	records := hundredProfiles()

	page := Run(records, Query{
		Filters: domain.FilterSpec{
			Specializations: []string{"Trauma"},
			Experience:      domain.ExperienceRange{Min: intPtr(10)},
		},
		Page:     1,
		PageSize: 12,
	})

	var intersection int
	for _, p := range records {
		if p.YearsOfExperience >= 10 && p.Specializations[len(p.Specializations)-1] == "Trauma" {
			intersection++
		}
	}

	if intersection != 16 {
		t.Fatalf("fixture intersection = %d, want 16", intersection)
	}
	if page.TotalMatches != intersection {
		t.Errorf("TotalMatches = %d, want %d", page.TotalMatches, intersection)
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want ceil(16/12) = 2", page.TotalPages)
	}

	want := []int64{35, 95, 5, 10, 15, 20, 30, 40, 45, 55, 60, 65}
	if got := ids(page.Items); !reflect.DeepEqual(got, want) {
		t.Errorf("first page = %v, want %v", got, want)
	}

	second := Run(records, Query{
		Filters: domain.FilterSpec{
			Specializations: []string{"Trauma"},
			Experience:      domain.ExperienceRange{Min: intPtr(10)},
		},
		Page:     2,
		PageSize: 12,
	})
	if got := ids(second.Items); !reflect.DeepEqual(got, []int64{70, 80, 85, 90}) {
		t.Errorf("second page = %v", got)
	}
}

func TestQueryFromValues(t *testing.T) {
	values := url.Values{
		"specializations":       {"Anxiety,Trauma", " Grief "},
		"language":              {"English"},
		"languages":             {"Spanish"},
		"location":              {" Miami "},
		"experienceMin":         {"0"},
		"experience_max":        {"ten"},
		"accepting_new_clients": {"true"},
		"search":                {"  cbt "},
		"availabilityNote":      {" evening "},
		"sort":                  {"experience-desc"},
		"page":                  {"3"},
		"limit":                 {"24"},
	}

	q := QueryFromValues(values, 12)

	if !reflect.DeepEqual(q.Filters.Specializations, []string{"Anxiety", "Trauma", "Grief"}) {
		t.Errorf("Specializations = %v", q.Filters.Specializations)
	}
	if !reflect.DeepEqual(q.Filters.Languages, []string{"Spanish", "English"}) {
		t.Errorf("Languages = %v", q.Filters.Languages)
	}
	if q.Filters.Location != "Miami" || q.Filters.Search != "cbt" || q.Filters.AvailabilityNote != "evening" {
		t.Errorf("Location=%q Search=%q AvailabilityNote=%q", q.Filters.Location, q.Filters.Search, q.Filters.AvailabilityNote)
	}
	if q.Filters.Experience.Min == nil || *q.Filters.Experience.Min != 0 {
		t.Errorf("Experience.Min = %v, want present 0", q.Filters.Experience.Min)
	}
	if q.Filters.Experience.Max != nil {
		t.Errorf("non-numeric max should be ignored, got %d", *q.Filters.Experience.Max)
	}
	if q.Filters.AcceptingNewClients == nil || !*q.Filters.AcceptingNewClients {
		t.Errorf("AcceptingNewClients = %v", q.Filters.AcceptingNewClients)
	}
	if q.Sort != domain.SortExperienceDesc || q.Page != 3 || q.PageSize != 24 {
		t.Errorf("Sort=%q Page=%d PageSize=%d", q.Sort, q.Page, q.PageSize)
	}
}

func TestQueryFromValues_MalformedIgnored(t *testing.T) {
	values := url.Values{
		"experience_min":        {"abc"},
		"accepting_new_clients": {"maybe"},
		"page":                  {"x"},
		"limit":                 {"-5"},
		"sort":                  {"random"},
	}

	q := QueryFromValues(values, 12)

	if !q.Filters.IsEmpty() {
		t.Errorf("malformed values produced constraints: %+v", q.Filters)
	}
	if q.Page != 1 || q.PageSize != 12 || q.Sort != domain.SortRelevance {
		t.Errorf("Page=%d PageSize=%d Sort=%q", q.Page, q.PageSize, q.Sort)
	}
}

func TestQueryFromValues_LimitCapped(t *testing.T) {
	q := QueryFromValues(url.Values{"limit": {"1000000"}}, 12)
	if q.PageSize != domain.MaxPageSize {
		t.Errorf("PageSize = %d, want %d", q.PageSize, domain.MaxPageSize)
	}
}

func TestSpecFromJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.FilterSpec
	}{
		{
			name: "all fields",
			raw:  `{"specializations":["Anxiety"," Trauma "],"languages":["English"],"location":" Miami ","experience":{"min":0,"max":10},"accepting_new_clients":true,"search":"cbt","availability_note":"evening"}`,
			want: domain.FilterSpec{
				Specializations:     []string{"Anxiety", "Trauma"},
				Languages:           []string{"English"},
				Location:            "Miami",
				Experience:          domain.ExperienceRange{Min: intPtr(0), Max: intPtr(10)},
				AcceptingNewClients: boolPtr(true),
				Search:              "cbt",
				AvailabilityNote:    "evening",
			},
		},
		{
			name: "camelCase and flat bounds",
			raw:  `{"specialization":"Grief, Stress","experienceMin":"5","acceptingNewClients":"false","availabilityNote":"soon"}`,
			want: domain.FilterSpec{
				Specializations:     []string{"Grief", "Stress"},
				Experience:          domain.ExperienceRange{Min: intPtr(5)},
				AcceptingNewClients: boolPtr(false),
				AvailabilityNote:    "soon",
			},
		},
		{
			name: "malformed fields dropped, valid ones kept",
			raw:  `{"specializations":["Trauma"],"experience":{"min":"abc","max":7.5},"languages":{"a":1},"location":3,"accepting_new_clients":"maybe"}`,
			want: domain.FilterSpec{Specializations: []string{"Trauma"}},
		},
		{
			name: "experience not an object",
			raw:  `{"experience":"ten","search":"jane"}`,
			want: domain.FilterSpec{Search: "jane"},
		},
		{
			name: "nulls are absent",
			raw:  `{"experience":{"min":null,"max":null},"experienceMin":null,"accepting_new_clients":null,"location":null}`,
			want: domain.FilterSpec{},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: domain.FilterSpec{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpecFromJSON([]byte(tt.raw))
			if err != nil {
				t.Fatalf("SpecFromJSON: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpecFromJSON_NotAnObject(t *testing.T) {
	for _, raw := range []string{`"trauma"`, `[1,2]`, `null`, `{`} {
		if _, err := SpecFromJSON([]byte(raw)); !errors.Is(err, ErrFiltersNotObject) {
			t.Errorf("SpecFromJSON(%s) error = %v", raw, err)
		}
	}
}
