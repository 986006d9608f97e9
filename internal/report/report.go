// Package report formats the per-table quality counters into the plain-text
// data quality report. Pure formatting: every number is computed upstream by
// the cleaners; the section layout and field order here are a fixed contract.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/clean"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// Render returns the report text. One section per table, each listing
// processed / duplicates removed / missing handled / loaded, in that order.
func Render(customers, products, sales domain.QualityCounters) string {
	var b strings.Builder
	b.WriteString("DATA QUALITY REPORT\n")
	b.WriteString("===================\n\n")
	section(&b, "CUSTOMERS", customers)
	b.WriteString("\n")
	section(&b, "PRODUCTS", products)
	b.WriteString("\n")
	section(&b, "SALES", sales)
	return b.String()
}

func section(b *strings.Builder, name string, c domain.QualityCounters) {
	fmt.Fprintf(b, "%s\n", name)
	fmt.Fprintf(b, "Records processed: %d\n", c.Processed)
	fmt.Fprintf(b, "Duplicates removed: %d\n", c.DuplicatesRemoved)
	fmt.Fprintf(b, "Missing values handled: %d\n", c.MissingHandled)
	fmt.Fprintf(b, "Records loaded successfully: %d\n", c.Loaded)
}

// Write renders the report and persists it to path.
func Write(path string, customers, products, sales domain.QualityCounters) error {
	if err := os.WriteFile(path, []byte(Render(customers, products, sales)), 0o644); err != nil {
		return fmt.Errorf("write quality report: %w", err)
	}
	return nil
}

// ColumnBreakdown counts missing cells per column of a raw table. It is a
// finer-grained companion to QualityCounters.MissingHandled and is not part
// of the report above; callers wanting richer observability can log it.
func ColumnBreakdown(raw []domain.RawRecord) map[string]int {
	out := map[string]int{}
	for _, r := range raw {
		for col, v := range r {
			if clean.Missing(v) {
				out[col]++
			}
		}
	}
	return out
}

// RenderColumnBreakdown formats a ColumnBreakdown as "col=n" pairs in column
// order, suitable for a single log line.
func RenderColumnBreakdown(counts map[string]int) string {
	cols := make([]string, 0, len(counts))
	for c := range counts {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	return strings.Join(parts, " ")
}
