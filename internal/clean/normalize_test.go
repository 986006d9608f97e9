package clean

import (
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func TestNormalizePhoneCanonicalForms(t *testing.T) {
	// All three source spellings of the same number converge.
	for _, raw := range []string{"+91-98765 43210", "9876543210", "919876543210"} {
		got := NormalizePhone(raw)
		if got == nil || *got != "+919876543210" {
			t.Fatalf("NormalizePhone(%q) = %v, want +919876543210", raw, got)
		}
	}
}

func TestNormalizePhoneMissing(t *testing.T) {
	for _, raw := range []string{"", "  ", "nan", "None", "NULL"} {
		if got := NormalizePhone(raw); got != nil {
			t.Fatalf("NormalizePhone(%q) = %q, want nil", raw, *got)
		}
	}
}

func TestNormalizePhoneShortInputKept(t *testing.T) {
	// Short digit strings are not validated; the malformed result is the
	// documented behavior, not something to silently repair.
	got := NormalizePhone("123")
	if got == nil || *got != "+91123" {
		t.Fatalf("NormalizePhone(123) = %v, want +91123", got)
	}
}

func TestNormalizeDateLayoutOrder(t *testing.T) {
	// "01/02/2024" is ambiguous; the day-first layout wins because it is
	// tried first. This ordering is a contract, not an accident.
	got := NormalizeDate("01/02/2024", SalesDateLayouts)
	if got == nil {
		t.Fatal("NormalizeDate(01/02/2024) = nil")
	}
	want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeDate(01/02/2024) = %s, want %s", got, want)
	}
}

func TestNormalizeDateFormats(t *testing.T) {
	cases := []struct {
		raw     string
		layouts []string
		want    string // "" means absent
	}{
		{"2024-03-15", CustomerDateLayouts, "2024-03-15"},
		{"15/03/2024", CustomerDateLayouts, "2024-03-15"},
		{"03-15-2024", CustomerDateLayouts, "2024-03-15"},
		{" 2024-03-15 ", CustomerDateLayouts, "2024-03-15"},
		// Month-slash-day is accepted only by the sales layout list.
		{"03/15/2024", CustomerDateLayouts, ""},
		{"03/15/2024", SalesDateLayouts, "2024-03-15"},
		{"not a date", SalesDateLayouts, ""},
		{"", SalesDateLayouts, ""},
		{"nan", SalesDateLayouts, ""},
	}
	for _, tc := range cases {
		got := NormalizeDate(tc.raw, tc.layouts)
		if tc.want == "" {
			if got != nil {
				t.Fatalf("NormalizeDate(%q) = %s, want nil", tc.raw, got)
			}
			continue
		}
		if got == nil || got.Format("2006-01-02") != tc.want {
			t.Fatalf("NormalizeDate(%q) = %v, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want *string
	}{
		{" Electronics ", strp("Electronics")},
		{"ELECTRONICS", strp("Electronics")},
		{"fashion", strp("Fashion")},
		{"Groceries", strp("Groceries")},
		{"toys", strp("Toys")},
		{"home decor", strp("Home decor")},
		{"", nil},
		{"nan", nil},
	}
	for _, tc := range cases {
		got := NormalizeCategory(tc.raw)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("NormalizeCategory(%q) = %q, want nil", tc.raw, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("NormalizeCategory(%q) = %v, want %q", tc.raw, got, *tc.want)
		}
	}
}

func TestNormalizeCity(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"  mumbai ", "Mumbai"},
		{"new delhi", "New Delhi"},
		{"BANGALORE", "Bangalore"},
	}
	for _, tc := range cases {
		got := NormalizeCity(tc.raw)
		if got == nil || *got != tc.want {
			t.Fatalf("NormalizeCity(%q) = %v, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCityMissingPropagatesAbsent(t *testing.T) {
	// Pinned decision: a missing city stays absent (NULL at the sink), it is
	// not coerced to an empty or placeholder string.
	for _, raw := range []string{"", "nan", "None"} {
		if got := NormalizeCity(raw); got != nil {
			t.Fatalf("NormalizeCity(%q) = %q, want nil", raw, *got)
		}
	}
}

func TestMissing(t *testing.T) {
	missing := []string{"", " ", "nan", "NaN", "none", "NULL"}
	for _, s := range missing {
		if !Missing(s) {
			t.Fatalf("Missing(%q) = false, want true", s)
		}
	}
	present := []string{"0", "x", "nankana sahib"}
	for _, s := range present {
		if Missing(s) {
			t.Fatalf("Missing(%q) = true, want false", s)
		}
	}
}
