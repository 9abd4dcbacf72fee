package directory

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"mindconnect/internal/domain"
)

// QueryFromValues builds a Query from request parameters. Browsing must never
// fail on bad input, so malformed values are dropped instead of reported.
func QueryFromValues(values url.Values, defaultPageSize int) Query {
	q := Query{
		Filters:  SpecFromValues(values),
		Sort:     domain.ParseSortKey(values.Get("sort")),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if page, ok := parseInt(first(values, "page")); ok {
		q.Page = page
	}
	if limit, ok := parseInt(first(values, "limit", "page_size")); ok && limit > 0 {
		q.PageSize = min(limit, domain.MaxPageSize)
	}

	return q
}

// SpecFromValues reads a FilterSpec from either snake_case or camelCase keys.
func SpecFromValues(values url.Values) domain.FilterSpec {
	spec := domain.FilterSpec{
		Specializations:  list(values, "specializations", "specialization"),
		Languages:        list(values, "languages", "language"),
		Location:         strings.TrimSpace(first(values, "location")),
		Search:           strings.TrimSpace(first(values, "search", "q")),
		AvailabilityNote: strings.TrimSpace(first(values, "availability_note", "availabilityNote")),
	}

	if v, ok := parseInt(first(values, "experience_min", "experienceMin", "min_experience")); ok {
		spec.Experience.Min = &v
	}
	if v, ok := parseInt(first(values, "experience_max", "experienceMax", "max_experience")); ok {
		spec.Experience.Max = &v
	}
	if v, ok := parseBool(first(values, "accepting_new_clients", "acceptingNewClients")); ok {
		spec.AcceptingNewClients = &v
	}

	return spec
}

// ErrFiltersNotObject is returned by SpecFromJSON when the payload is not a
// JSON object at all.
var ErrFiltersNotObject = errors.New("filters must be a JSON object")

// SpecFromJSON reads a FilterSpec from a JSON object with the same tolerance as
// SpecFromValues: every field is decoded on its own and a field of the wrong
// type is dropped while the rest still apply.
func SpecFromJSON(raw []byte) (domain.FilterSpec, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.FilterSpec{}, ErrFiltersNotObject
	}

	spec := domain.FilterSpec{
		Specializations:  jsonList(fields, "specializations", "specialization"),
		Languages:        jsonList(fields, "languages", "language"),
		Location:         jsonString(fields, "location"),
		Search:           jsonString(fields, "search", "q"),
		AvailabilityNote: jsonString(fields, "availability_note", "availabilityNote"),
	}

	var experience map[string]json.RawMessage
	if rawExp, ok := fields["experience"]; ok && json.Unmarshal(rawExp, &experience) == nil {
		if v, ok := jsonInt(experience, "min"); ok {
			spec.Experience.Min = &v
		}
		if v, ok := jsonInt(experience, "max"); ok {
			spec.Experience.Max = &v
		}
	}
	if spec.Experience.Min == nil {
		if v, ok := jsonInt(fields, "experience_min", "experienceMin"); ok {
			spec.Experience.Min = &v
		}
	}
	if spec.Experience.Max == nil {
		if v, ok := jsonInt(fields, "experience_max", "experienceMax"); ok {
			spec.Experience.Max = &v
		}
	}

	if v, ok := jsonBool(fields, "accepting_new_clients", "acceptingNewClients"); ok {
		spec.AcceptingNewClients = &v
	}

	return spec, nil
}

// jsonList accepts an array of strings or a comma separated string. Non-string
// array elements are skipped.
func jsonList(fields map[string]json.RawMessage, keys ...string) []string {
	var out []string
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}

		var joined string
		if json.Unmarshal(raw, &joined) == nil {
			out = append(out, splitList(joined)...)
			continue
		}

		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			continue
		}
		for _, item := range items {
			var v string
			if json.Unmarshal(item, &v) != nil {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func jsonString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		var v string
		if raw, ok := fields[k]; ok && json.Unmarshal(raw, &v) == nil {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// jsonInt takes a whole JSON number or a numeric string. Fractions are dropped
// as malformed.
func jsonInt(fields map[string]json.RawMessage, keys ...string) (int, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok || isNull(raw) {
			continue
		}
		var n int
		if json.Unmarshal(raw, &n) == nil {
			return n, true
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if n, ok := parseInt(s); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func jsonBool(fields map[string]json.RawMessage, keys ...string) (bool, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok || isNull(raw) {
			continue
		}
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			return b, true
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if b, ok := parseBool(s); ok {
				return b, true
			}
		}
	}
	return false, false
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// list accepts repeated keys and comma separated values alike.
func list(values url.Values, keys ...string) []string {
	var out []string
	for _, k := range keys {
		for _, raw := range values[k] {
			out = append(out, splitList(raw)...)
		}
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBool(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}
