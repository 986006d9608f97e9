// Package clean implements the transform stage: per-field normalizers and
// per-table cleaners applied to the raw FlexiMart extracts.
package clean

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PhonePrefix is the fixed country-code prefix prepended to normalized
// national numbers.
const PhonePrefix = "+91"

// phoneNationalLen is the target national number length; longer digit
// strings keep only their trailing digits (discarding country/trunk
// prefixes such as "91" or "0").
const phoneNationalLen = 10

// Accepted date layouts, in priority order. Order is a semantic contract:
// an input like "01/02/2024" parses as February 1st because the
// day-first layout is tried before the month-first one. The sales extract
// accepts one extra layout that the customer extract does not.
var (
	CustomerDateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-2006"}
	SalesDateLayouts    = []string{"2006-01-02", "02/01/2006", "01-02-2006", "01/02/2006"}
)

// Missing reports whether a raw cell carries no value. Besides the empty
// string, the extracts spell "nothing" in a few textual ways.
func Missing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// NormalizePhone strips all non-digit characters, keeps the trailing 10
// digits when the result is longer, and prepends PhonePrefix. Missing input
// yields nil. Short digit strings are NOT padded or rejected: a 3-digit
// source phone yields a 3-digit result behind the prefix. That quirk is
// inherited from the source system and kept on purpose.
func NormalizePhone(raw string) *string {
	if Missing(raw) {
		return nil
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > phoneNationalLen {
		digits = digits[len(digits)-phoneNationalLen:]
	}
	out := PhonePrefix + digits
	return &out
}

// NormalizeDate tries each accepted layout in order and returns the first
// successful parse. Unparseable or missing input yields nil, never an error.
func NormalizeDate(raw string, layouts []string) *time.Time {
	if Missing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// canonicalCategories maps the known lower-cased categories to their
// display labels.
var canonicalCategories = map[string]string{
	"electronics": "Electronics",
	"fashion":     "Fashion",
	"groceries":   "Groceries",
}

// NormalizeCategory trims and lower-cases the input, maps known categories
// to their canonical labels, and default-capitalizes anything else. Missing
// input yields nil, not a default category.
func NormalizeCategory(raw string) *string {
	if Missing(raw) {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := canonicalCategories[s]; ok {
		return &label
	}
	out := strings.ToUpper(s[:1]) + s[1:]
	return &out
}

// NormalizeCity trims and title-cases each word. A missing raw value
// propagates as nil rather than being coerced to a placeholder string; the
// sink stores it as NULL.
//
// A fresh Caser per call: cases.Caser is not safe for concurrent use and
// the cleaners run in parallel.
func NormalizeCity(raw string) *string {
	if Missing(raw) {
		return nil
	}
	out := cases.Title(language.English).String(strings.TrimSpace(raw))
	return &out
}
