package clean

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// Customers cleans the raw customer extract. Policy, in order:
//
//  1. deduplicate by customer_id (keep first occurrence),
//  2. deduplicate by email among rows with a present email (keep first),
//  3. drop rows whose email is missing.
//
// The email dedup runs before the missing-email drop, so a row with a
// duplicate-but-present email is removed before any missing-email row is
// dropped. Missing emails are never defaulted; email is the primary contact
// key and a row without one is useless downstream.
//
// Counters come from the raw table: Processed is the raw row count,
// DuplicatesRemoved counts raw rows repeating a customer_id, and
// MissingHandled counts every missing cell in the raw table.
func Customers(raw []domain.RawRecord) ([]domain.CleanCustomer, domain.QualityCounters) {
	counters := domain.QualityCounters{
		Processed:         len(raw),
		DuplicatesRemoved: countDuplicates(raw, "customer_id"),
		MissingHandled:    countMissingCells(raw),
	}

	out := make([]domain.CleanCustomer, 0, len(raw))
	seenID := newSeenSet(len(raw))
	seenEmail := newSeenSet(len(raw))
	for _, r := range raw {
		if !seenID.add(strings.TrimSpace(r["customer_id"])) {
			continue
		}
		email := strings.TrimSpace(r["email"])
		if !Missing(email) && !seenEmail.add(email) {
			continue
		}
		if Missing(email) {
			continue
		}
		out = append(out, domain.CleanCustomer{
			SourceID:         strings.TrimSpace(r["customer_id"]),
			FirstName:        strings.TrimSpace(r["first_name"]),
			LastName:         strings.TrimSpace(r["last_name"]),
			Email:            email,
			Phone:            NormalizePhone(r["phone"]),
			City:             NormalizeCity(r["city"]),
			RegistrationDate: NormalizeDate(r["registration_date"], CustomerDateLayouts),
		})
	}
	counters.Loaded = len(out)
	return out, counters
}

// Products cleans the raw product extract. No rows are ever dropped: missing
// prices are filled with the median of all present raw prices (computed once,
// over the full column, before any row is mutated) and missing stock with
// zero. The median fill deliberately avoids zero, which would read as "free".
func Products(raw []domain.RawRecord) ([]domain.CleanProduct, domain.QualityCounters) {
	counters := domain.QualityCounters{
		Processed:      len(raw),
		MissingHandled: countMissingCells(raw),
	}

	priceMedian := medianPrice(raw)

	out := make([]domain.CleanProduct, 0, len(raw))
	for _, r := range raw {
		price := priceMedian
		if p, ok := parsePrice(r["price"]); ok {
			price = p
		}
		out = append(out, domain.CleanProduct{
			SourceID:      strings.TrimSpace(r["product_id"]),
			ProductName:   strings.TrimSpace(r["product_name"]),
			Category:      NormalizeCategory(r["category"]),
			Price:         price,
			StockQuantity: parseStock(r["stock_quantity"]),
		})
	}
	counters.Loaded = len(out)
	return out, counters
}

// Sales cleans the raw sales extract: deduplicate by transaction_id (keep
// first), then drop rows missing either foreign key. Rows surviving into the
// load stage are guaranteed to carry both source ids; the loader never has
// to re-check.
func Sales(raw []domain.RawRecord) ([]domain.CleanSale, domain.QualityCounters) {
	counters := domain.QualityCounters{
		Processed:         len(raw),
		DuplicatesRemoved: countDuplicates(raw, "transaction_id"),
		MissingHandled:    countMissingCells(raw),
	}

	out := make([]domain.CleanSale, 0, len(raw))
	seen := newSeenSet(len(raw))
	for _, r := range raw {
		if !seen.add(strings.TrimSpace(r["transaction_id"])) {
			continue
		}
		customerID := strings.TrimSpace(r["customer_id"])
		productID := strings.TrimSpace(r["product_id"])
		if Missing(customerID) || Missing(productID) {
			continue
		}
		quantity, _ := strconv.Atoi(strings.TrimSpace(r["quantity"]))
		unitPrice, _ := parsePrice(r["unit_price"])
		out = append(out, domain.CleanSale{
			TransactionID:    strings.TrimSpace(r["transaction_id"]),
			SourceCustomerID: customerID,
			SourceProductID:  productID,
			Quantity:         quantity,
			UnitPrice:        unitPrice,
			TransactionDate:  NormalizeDate(r["transaction_date"], SalesDateLayouts),
		})
	}
	counters.Loaded = len(out)
	return out, counters
}

// seenSet is a first-occurrence tracker keyed by xxh3 hashes of the key
// string, avoiding key retention for large batches.
type seenSet map[uint64]struct{}

func newSeenSet(capacity int) seenSet { return make(seenSet, capacity) }

// add records key and reports whether it was new.
func (s seenSet) add(key string) bool {
	h := xxh3.HashString(key)
	if _, dup := s[h]; dup {
		return false
	}
	s[h] = struct{}{}
	return true
}

// countDuplicates counts raw rows repeating an earlier row's value in the
// key column. Missing key values compare equal to each other, matching the
// raw-side duplicate accounting of the source system.
func countDuplicates(raw []domain.RawRecord, key string) int {
	seen := newSeenSet(len(raw))
	dups := 0
	for _, r := range raw {
		if !seen.add(strings.TrimSpace(r[key])) {
			dups++
		}
	}
	return dups
}

// countMissingCells totals missing cells across every column of the raw
// table. Coarse on purpose: the quality report tracks how many missing cells
// existed, not how many were repaired.
func countMissingCells(raw []domain.RawRecord) int {
	n := 0
	for _, r := range raw {
		for _, v := range r {
			if Missing(v) {
				n++
			}
		}
	}
	return n
}

// parsePrice parses a decimal cell. Missing or unparseable values report
// ok=false so the caller can apply its fill policy.
func parsePrice(s string) (float64, bool) {
	if Missing(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseStock coerces a stock cell to a non-negative-by-convention integer,
// truncating decimal quantities. Missing or unparseable values become 0.
func parseStock(s string) int {
	if Missing(s) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// medianPrice computes the median over all present, parseable prices in the
// raw batch. Zero when no prices are present.
func medianPrice(raw []domain.RawRecord) float64 {
	prices := make([]float64, 0, len(raw))
	for _, r := range raw {
		if p, ok := parsePrice(r["price"]); ok {
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}
	return (prices[mid-1] + prices[mid]) / 2
}
