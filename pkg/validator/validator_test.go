package validator

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Dr. Jane Doe":          "dr-jane-doe",
		"  Ana   Ruiz  ":        "ana-ruiz",
		"O'Brien, Ph.D.":        "o-brien-ph-d",
		"Dr. Psychologist 42":   "dr-psychologist-42",
		"Zoë Müller":            "zo-m-ller",
		"---":                   "",
		"Анна Иванова":          "",
		"already-a-slug":        "already-a-slug",
		"Mixed_Case__Separator": "mixed-case-separator",
	}

	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"dr-jane-doe", "a", "p-42"}
	invalid := []string{"", "Dr-Jane", "-a", "a-", "a--b", "a b"}

	for _, s := range valid {
		if !ValidateSlug(s) {
			t.Errorf("ValidateSlug(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if ValidateSlug(s) {
			t.Errorf("ValidateSlug(%q) = true", s)
		}
	}
}

type sample struct {
	Email   string `json:"visitor_email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=10"`
	Phone   string `json:"phone"`
}

func TestStruct(t *testing.T) {
	if err := Struct(sample{Email: "a@example.com", Message: "long enough text"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := Struct(sample{Email: "nope", Message: "short"})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %T %v, want Errors", err, err)
	}
	if len(verrs) != 2 {
		t.Fatalf("got %d field errors: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "visitor_email" || verrs[0].Rule != "email" {
		t.Errorf("first error = %+v", verrs[0])
	}
	if verrs[1].Field != "message" || verrs[1].Rule != "min" {
		t.Errorf("second error = %+v", verrs[1])
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("jane.doe@example.com") {
		t.Error("valid email rejected")
	}
	if ValidateEmail("jane.doe@") {
		t.Error("invalid email accepted")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  <b>hi</b>  "); got != "bhi/b" {
		t.Errorf("SanitizeString = %q", got)
	}
}
