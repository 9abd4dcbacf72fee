// Package directory implements the public psychologist directory query:
// filtering, sorting and paging of already published profiles.
package directory

import (
	"strings"

	"mindconnect/internal/domain"
)

type predicate func(p *domain.Psychologist) bool

// Filter returns the records matching every present constraint of spec, in
// source order. The input slice is not modified.
func Filter(records []domain.Psychologist, spec domain.FilterSpec) []domain.Psychologist {
	if len(records) == 0 {
		return []domain.Psychologist{}
	}

	preds := compile(spec)
	out := make([]domain.Psychologist, 0, len(records))
	for i := range records {
		if matchAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record satisfies spec.
func Matches(p domain.Psychologist, spec domain.FilterSpec) bool {
	return matchAll(&p, compile(spec))
}

func matchAll(p *domain.Psychologist, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// compile turns the present fields of spec into predicates; absent fields
// contribute nothing, so an empty spec compiles to an empty conjunction.
func compile(spec domain.FilterSpec) []predicate {
	var preds []predicate

	if tags := normalizeTags(spec.Specializations); len(tags) > 0 {
		preds = append(preds, func(p *domain.Psychologist) bool {
			have := tagSet(p.Specializations)
			for _, t := range tags {
				if _, ok := have[t]; ok {
					return true
				}
			}
			return false
		})
	}

	if tags := normalizeTags(spec.Languages); len(tags) > 0 {
		preds = append(preds, func(p *domain.Psychologist) bool {
			have := tagSet(p.Languages)
			for _, t := range tags {
				if _, ok := have[t]; !ok {
					return false
				}
			}
			return true
		})
	}

	if loc := strings.ToLower(strings.TrimSpace(spec.Location)); loc != "" {
		preds = append(preds, func(p *domain.Psychologist) bool {
			return strings.Contains(strings.ToLower(p.Location), loc)
		})
	}

	if !spec.Experience.IsEmpty() {
		rng := spec.Experience
		preds = append(preds, func(p *domain.Psychologist) bool {
			return rng.Contains(p.YearsOfExperience)
		})
	}

	if spec.AcceptingNewClients != nil {
		want := *spec.AcceptingNewClients
		preds = append(preds, func(p *domain.Psychologist) bool {
			return p.AcceptingNewClients == want
		})
	}

	if note := strings.ToLower(strings.TrimSpace(spec.AvailabilityNote)); note != "" {
		preds = append(preds, func(p *domain.Psychologist) bool {
			return strings.Contains(strings.ToLower(p.AvailabilityNote), note)
		})
	}

	if term := strings.ToLower(strings.TrimSpace(spec.Search)); term != "" {
		preds = append(preds, func(p *domain.Psychologist) bool {
			return matchesSearch(p, term)
		})
	}

	return preds
}

func matchesSearch(p *domain.Psychologist, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Credentials), term) ||
		strings.Contains(strings.ToLower(p.About), term) {
		return true
	}
	for _, s := range p.Specializations {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}
