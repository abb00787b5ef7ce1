package validate

import (
	"strings"
	"testing"
)

type signupForm struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type holdingsForm struct {
	Items []holdingForm `json:"items" validate:"dive"`
}

type holdingForm struct {
	CoinID string  `json:"coinId" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

func findField(t *testing.T, errs []FieldError, field string) FieldError {
	t.Helper()
	for _, e := range errs {
		if e.Field == field {
			return e
		}
	}
	t.Fatalf("no error for field %q in %+v", field, errs)
	return FieldError{}
}

func TestStructReturnsNilWhenValid(t *testing.T) {
	errs := Struct(signupForm{Username: "alice_99", Email: "alice@x.com", Password: "secret1"})
	if errs != nil {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestStructAccumulatesAllViolations(t *testing.T) {
	// Three fields wrong at once: all three must be reported together
	errs := Struct(signupForm{Username: "a!", Email: "not-an-email", Password: "123"})
	if len(errs) < 3 {
		t.Fatalf("expected at least 3 errors, got %+v", errs)
	}
	findField(t, errs, "username")
	e := findField(t, errs, "email")
	if e.Message != "must be a valid email address" {
		t.Fatalf("unexpected email message: %q", e.Message)
	}
	e = findField(t, errs, "password")
	if !strings.Contains(e.Message, "at least 6 characters") {
		t.Fatalf("unexpected password message: %q", e.Message)
	}
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	errs := Struct(signupForm{Username: "ok_name", Email: "", Password: "secret1"})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %+v", errs)
	}
	if errs[0].Field != "email" || errs[0].Message != "is required" {
		t.Fatalf("expected json-tagged field name, got %+v", errs[0])
	}
}

func TestSliceElementsReportedByIndex(t *testing.T) {
	errs := Struct(holdingsForm{Items: []holdingForm{
		{CoinID: "bitcoin", Amount: 1},
		{CoinID: "", Amount: -2},
	}})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %+v", errs)
	}
	findField(t, errs, "items[1].coinId")
	e := findField(t, errs, "items[1].amount")
	if !strings.Contains(e.Message, "greater than or equal to 0") {
		t.Fatalf("unexpected amount message: %q", e.Message)
	}
}

func TestUsernameRule(t *testing.T) {
	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"plain", "alice", true},
		{"underscore and digits", "alice_99", true},
		{"space", "alice smith", false},
		{"punctuation", "alice!", false},
		{"accented", "alicé", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Struct(signupForm{Username: tc.value, Email: "alice@x.com", Password: "secret1"})
			if tc.ok && errs != nil {
				t.Fatalf("expected %q to pass, got %+v", tc.value, errs)
			}
			if !tc.ok && errs == nil {
				t.Fatalf("expected %q to fail", tc.value)
			}
		})
	}
}
