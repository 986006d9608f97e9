// Package domain holds the business objects shared by the FlexiMart ETL
// stages: raw extract records, cleaned entities, sink-side order entities,
// identity maps, and per-table quality counters.
package domain

import (
	"math"
	"time"
)

// DateLayout is the canonical output format for calendar dates.
const DateLayout = "2006-01-02"

// RawRecord is one row of a tabular extract, keyed by column header.
// Values are untrimmed, unparsed text exactly as read from the file.
type RawRecord map[string]string

// CleanCustomer is a customer row after deduplication and normalization.
// Email is always present and unique within a batch; rows with a missing
// email are dropped during cleaning.
type CleanCustomer struct {
	SourceID         string
	FirstName        string
	LastName         string
	Email            string
	Phone            *string    // "+91" + national digits, nil when absent
	City             *string    // title-cased, nil when absent
	RegistrationDate *time.Time // nil when unparseable or absent
}

// CleanProduct is a product row after normalization. Product cleaning never
// drops rows: missing prices are filled with the batch median and missing
// stock with zero.
type CleanProduct struct {
	SourceID      string
	ProductName   string
	Category      *string // canonical label, nil when absent
	Price         float64
	StockQuantity int
}

// CleanSale is a sales transaction after deduplication. Both foreign keys
// are guaranteed non-missing; rows failing that are dropped during cleaning,
// never during load.
type CleanSale struct {
	TransactionID    string
	SourceCustomerID string
	SourceProductID  string
	Quantity         int
	UnitPrice        float64
	TransactionDate  *time.Time // nil when unparseable or absent
}

// Order is the sink-side header created from one CleanSale.
type Order struct {
	CustomerID  int64 // sink-assigned
	OrderDate   *time.Time
	TotalAmount float64
	Status      string
}

// OrderItem is the single line item of an Order. Subtotal carries the same
// value as the order's TotalAmount.
type OrderItem struct {
	OrderID   int64 // sink-assigned
	ProductID int64 // sink-assigned
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// OrderStatusDefault is the initial status for every loaded order.
const OrderStatusDefault = "Pending"

// QualityCounters summarizes one table's cleaning run. Computed once after
// cleaning and consumed once by the reporter.
type QualityCounters struct {
	// Processed is the raw row count, before any drop.
	Processed int
	// DuplicatesRemoved counts raw rows sharing the table's uniqueness key
	// beyond the first occurrence. Zero for products, which define no key.
	DuplicatesRemoved int
	// MissingHandled is the total count of missing cells across the original
	// raw table, all columns. It is a coarse metric: missing cells that
	// existed, not missing cells that were fixed.
	MissingHandled int
	// Loaded is the clean row count.
	Loaded int
}

// Round2 rounds a monetary amount to two fraction digits, matching the
// DECIMAL(10,2) sink columns.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
