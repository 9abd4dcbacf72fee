package directory

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"mindconnect/internal/domain"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func profile(id int64, name string, years int, specs, langs []string, location string) domain.Psychologist {
	return domain.Psychologist{
		ID:                id,
		Slug:              fmt.Sprintf("p-%d", id),
		Name:              name,
		YearsOfExperience: years,
		Specializations:   specs,
		Languages:         langs,
		Location:          location,
		Status:            domain.ProfileStatusPublished,
	}
}

func sampleProfiles() []domain.Psychologist {
	jane := profile(1, "Dr. Jane Doe", 15, []string{"Anxiety", "Depression", "CBT"}, []string{"English", "Spanish"}, "New York, NY")
	jane.Credentials = "Ph.D., Licensed Psychologist"
	jane.About = "Cognitive-behavioral therapy for adults."
	jane.AcceptingNewClients = true
	jane.Featured = true

	john := profile(2, "Dr. John Smith", 8, []string{"Couples Therapy", "Trauma"}, []string{"English"}, "Los Angeles, CA")
	john.Credentials = "M.A., LMFT"
	john.About = "Helping couples navigate relationship dynamics."

	ana := profile(3, "Ana Ruiz", 5, []string{"anxiety"}, []string{"spanish", "english"}, "Miami, FL")
	ana.AcceptingNewClients = true

	ken := profile(4, "Ken Ito", 0, []string{"Grief"}, []string{"Japanese"}, "Seattle, WA")

	lea := profile(5, "Lea Brun", 10, []string{"Stress"}, []string{"French", "English"}, "new york, ny")
	lea.About = "Mindfulness-based stress reduction and anxiety work."

	return []domain.Psychologist{jane, john, ana, ken, lea}
}

func ids(records []domain.Psychologist) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_EmptySpecIsIdentity(t *testing.T) {
	records := sampleProfiles()

	got := Filter(records, domain.FilterSpec{})

	if !reflect.DeepEqual(got, records) {
		t.Fatalf("Filter with empty spec changed the records: %v", ids(got))
	}
}

func TestFilter_BlankValuesAreAbsent(t *testing.T) {
	records := sampleProfiles()
	spec := domain.FilterSpec{
		Specializations:  []string{"", "  "},
		Languages:        []string{" "},
		Location:         "   ",
		Search:           "\t",
		AvailabilityNote: " ",
	}

	if !spec.IsEmpty() {
		t.Fatal("spec with only blank values should be empty")
	}
	if got := Filter(records, spec); len(got) != len(records) {
		t.Fatalf("blank constraints excluded records: %v", ids(got))
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	got := Filter(nil, domain.FilterSpec{Search: "anything"})
	if got == nil || len(got) != 0 {
		t.Fatalf("Filter(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestFilter_SpecializationsAnyOf(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []int64
	}{
		{"single tag case-insensitive", []string{"ANXIETY"}, []int64{1, 3}},
		{"any of two", []string{"trauma", "grief"}, []int64{2, 4}},
		{"tag must match whole", []string{"Couples"}, []int64{}},
		{"unknown tag", []string{"Phobias"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleProfiles(), domain.FilterSpec{Specializations: tt.tags}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_SpecializationEveryResultHasTag(t *testing.T) {
	records := sampleProfiles()
	got := Filter(records, domain.FilterSpec{Specializations: []string{"Anxiety"}})

	has := func(p domain.Psychologist) bool {
		for _, s := range p.Specializations {
			if strings.EqualFold(s, "Anxiety") {
				return true
			}
		}
		return false
	}

	for _, p := range got {
		if !has(p) {
			t.Errorf("record %d returned without Anxiety", p.ID)
		}
	}
	for _, p := range records {
		if has(p) && !Matches(p, domain.FilterSpec{Specializations: []string{"Anxiety"}}) {
			t.Errorf("record %d has Anxiety but does not match", p.ID)
		}
	}
}

func TestFilter_LanguagesAllOf(t *testing.T) {
	tests := []struct {
		name  string
		langs []string
		want  []int64
	}{
		{"english only", []string{"English"}, []int64{1, 2, 3, 5}},
		{"english and spanish", []string{"English", "Spanish"}, []int64{1, 3}},
		{"case-insensitive", []string{"FRENCH", "english"}, []int64{5}},
		{"nobody speaks all three", []string{"English", "Spanish", "French"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleProfiles(), domain.FilterSpec{Languages: tt.langs}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_LocationSubstringCaseInsensitive(t *testing.T) {
	got := ids(Filter(sampleProfiles(), domain.FilterSpec{Location: "New York"}))
	want := []int64{1, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = ids(Filter(sampleProfiles(), domain.FilterSpec{Location: ", CA"}))
	if !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("got %v, want [2]", got)
	}
}

func TestFilter_ExperienceInclusiveBounds(t *testing.T) {
	records := []domain.Psychologist{
		profile(1, "a", 4, nil, nil, ""),
		profile(2, "b", 5, nil, nil, ""),
		profile(3, "c", 7, nil, nil, ""),
		profile(4, "d", 10, nil, nil, ""),
		profile(5, "e", 11, nil, nil, ""),
	}

	got := ids(Filter(records, domain.FilterSpec{Experience: domain.ExperienceRange{Min: intPtr(5), Max: intPtr(10)}}))
	want := []int64{2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilter_ExperienceZeroBoundsApply(t *testing.T) {
	records := sampleProfiles()

	got := ids(Filter(records, domain.FilterSpec{Experience: domain.ExperienceRange{Max: intPtr(0)}}))
	if !reflect.DeepEqual(got, []int64{4}) {
		t.Errorf("max=0: got %v, want [4]", got)
	}

	got = ids(Filter(records, domain.FilterSpec{Experience: domain.ExperienceRange{Min: intPtr(0)}}))
	if len(got) != len(records) {
		t.Errorf("min=0 should keep everyone, got %v", got)
	}
}

func TestFilter_AcceptingNewClients(t *testing.T) {
	got := ids(Filter(sampleProfiles(), domain.FilterSpec{AcceptingNewClients: boolPtr(true)}))
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("true: got %v", got)
	}

	got = ids(Filter(sampleProfiles(), domain.FilterSpec{AcceptingNewClients: boolPtr(false)}))
	if !reflect.DeepEqual(got, []int64{2, 4, 5}) {
		t.Errorf("false: got %v", got)
	}
}

func TestFilter_Search(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"name", "smith", []int64{2}},
		{"credentials", "lmft", []int64{2}},
		{"about", "MINDFULNESS", []int64{5}},
		{"specialization substring", "anx", []int64{1, 3, 5}},
		{"location is not searched", "seattle", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleProfiles(), domain.FilterSpec{Search: tt.term}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_AvailabilityNote(t *testing.T) {
	records := sampleProfiles()
	records[0].AvailabilityNote = "Accepting new clients. Flexible evening appointments available."
	records[1].AvailabilityNote = "Limited availability, please inquire."
	records[2].AvailabilityNote = "Evening sessions only"

	tests := []struct {
		name string
		note string
		want []int64
	}{
		{"substring", "evening", []int64{1, 3}},
		{"case-insensitive", "LIMITED", []int64{2}},
		{"padded", "  inquire ", []int64{2}},
		{"no match", "weekends", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(records, domain.FilterSpec{AvailabilityNote: tt.note}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_FieldsCombineWithAnd(t *testing.T) {
	spec := domain.FilterSpec{
		Specializations: []string{"Anxiety", "Stress"},
		Languages:       []string{"English"},
		Location:        "new york",
		Experience:      domain.ExperienceRange{Min: intPtr(12)},
	}

	got := ids(Filter(sampleProfiles(), spec))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	specs := []domain.FilterSpec{
		{},
		{Specializations: []string{"anxiety"}},
		{Languages: []string{"English", "Spanish"}},
		{Search: "dr", AcceptingNewClients: boolPtr(true)},
		{Experience: domain.ExperienceRange{Min: intPtr(5), Max: intPtr(10)}, Location: "a"},
	}

	for i, spec := range specs {
		once := Filter(sampleProfiles(), spec)
		twice := Filter(once, spec)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("spec %d: second pass changed result %v -> %v", i, ids(once), ids(twice))
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sampleProfiles()
	before := ids(records)

	_ = Filter(records, domain.FilterSpec{Search: "dr"})

	if !reflect.DeepEqual(ids(records), before) {
		t.Fatal("input slice modified")
	}
}
