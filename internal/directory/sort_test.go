package directory

import (
	"reflect"
	"testing"

	"mindconnect/internal/domain"
)

func sortFixture() []domain.Psychologist {
	a := profile(1, "carol", 5, nil, nil, "")
	b := profile(2, "Alice", 12, nil, nil, "")
	b.Featured = true
	c := profile(3, "bob", 5, nil, nil, "")
	d := profile(4, "Dave", 20, nil, nil, "")
	d.Featured = true
	e := profile(5, "alice", 5, nil, nil, "")
	return []domain.Psychologist{a, b, c, d, e}
}

func TestSort_Keys(t *testing.T) {
	tests := []struct {
		key  domain.SortKey
		want []int64
	}{
		// alice/Alice tie on name: source order decides.
		{domain.SortNameAsc, []int64{2, 5, 3, 1, 4}},
		{domain.SortNameDesc, []int64{4, 1, 3, 2, 5}},
		// three records share 5 years.
		{domain.SortExperienceDesc, []int64{4, 2, 1, 3, 5}},
		{domain.SortFeatured, []int64{2, 4, 1, 3, 5}},
		{domain.SortRelevance, []int64{2, 4, 5, 3, 1}},
		{domain.SortKey("bogus"), []int64{2, 4, 5, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(Sort(sortFixture(), tt.key))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort_StableForEqualKeys(t *testing.T) {
	var records []domain.Psychologist
	for i := int64(1); i <= 30; i++ {
		records = append(records, profile(i, "Same Name", 7, nil, nil, ""))
	}

	for _, key := range []domain.SortKey{domain.SortNameAsc, domain.SortNameDesc, domain.SortExperienceDesc, domain.SortFeatured, domain.SortRelevance} {
		got := Sort(records, key)
		if !reflect.DeepEqual(ids(got), ids(records)) {
			t.Errorf("%s reordered equal records: %v", key, ids(got))
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := sortFixture()
	before := ids(records)

	_ = Sort(records, domain.SortNameAsc)

	if !reflect.DeepEqual(ids(records), before) {
		t.Fatal("input slice reordered")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]domain.SortKey{
		"":                domain.SortRelevance,
		"relevance":       domain.SortRelevance,
		"NAME-ASC":        domain.SortNameAsc,
		"name-desc":       domain.SortNameDesc,
		"experience-desc": domain.SortExperienceDesc,
		"featured":        domain.SortFeatured,
		"featured-first":  domain.SortFeatured,
		"featured,desc":   domain.SortFeatured,
		"price-asc":       domain.SortRelevance,
	}

	for in, want := range tests {
		if got := domain.ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", in, got, want)
		}
	}
}
