package directory

import (
	"slices"
	"strings"

	"mindconnect/internal/domain"
)

// Sort returns a stably ordered copy of records. Records with equal keys keep
// their relative source order so page windows do not reshuffle between calls.
func Sort(records []domain.Psychologist, key domain.SortKey) []domain.Psychologist {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.Psychologist{}
	}
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key domain.SortKey) func(a, b domain.Psychologist) int {
	switch key {
	case domain.SortNameAsc:
		return compareName
	case domain.SortNameDesc:
		return func(a, b domain.Psychologist) int { return compareName(b, a) }
	case domain.SortExperienceDesc:
		return func(a, b domain.Psychologist) int { return b.YearsOfExperience - a.YearsOfExperience }
	case domain.SortFeatured:
		return compareFeatured
	default:
		return func(a, b domain.Psychologist) int {
			if c := compareFeatured(a, b); c != 0 {
				return c
			}
			return compareName(a, b)
		}
	}
}

func compareFeatured(a, b domain.Psychologist) int {
	switch {
	case a.Featured == b.Featured:
		return 0
	case a.Featured:
		return -1
	default:
		return 1
	}
}

func compareName(a, b domain.Psychologist) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}
