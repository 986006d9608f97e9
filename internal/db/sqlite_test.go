package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/db"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/loader"
)

// These tests run the real load path against a file-backed SQLite database
// (pure Go driver, no external services), the hermetic stand-in for the
// production Postgres/MySQL sinks.

func openSQLite(t *testing.T) (db.Sink, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleximart.db")
	sink, err := db.Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite sink: %v", err)
	}
	t.Cleanup(func() { sink.Close(context.Background()) })
	return sink, path
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func fixtures() ([]domain.CleanCustomer, []domain.CleanProduct, []domain.CleanSale) {
	phone := "+919876543210"
	city := "Mumbai"
	customers := []domain.CleanCustomer{
		{SourceID: "C1", FirstName: "Asha", LastName: "Rao", Email: "asha@x.com", Phone: &phone, City: &city, RegistrationDate: date("2024-01-15")},
		{SourceID: "C2", FirstName: "Vik", LastName: "Shah", Email: "vik@x.com"},
	}
	cat := "Electronics"
	products := []domain.CleanProduct{
		{SourceID: "P1", ProductName: "Laptop", Category: &cat, Price: 55000, StockQuantity: 5},
		{SourceID: "P2", ProductName: "Shirt", Price: 799},
	}
	sales := []domain.CleanSale{
		{TransactionID: "T1", SourceCustomerID: "C1", SourceProductID: "P1", Quantity: 2, UnitPrice: 499.50, TransactionDate: date("2024-05-01")},
		{TransactionID: "T2", SourceCustomerID: "C2", SourceProductID: "P2", Quantity: 1, UnitPrice: 799, TransactionDate: nil},
		{TransactionID: "T3", SourceCustomerID: "C9", SourceProductID: "P1", Quantity: 1, UnitPrice: 10},
	}
	return customers, products, sales
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	sink, _ := openSQLite(t)
	ctx := context.Background()
	if err := sink.EnsureSchema(ctx); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := sink.EnsureSchema(ctx); err != nil {
		t.Fatalf("second ensure should be a no-op: %v", err)
	}
}

func TestLoadEndToEnd(t *testing.T) {
	sink, path := openSQLite(t)
	ctx := context.Background()
	customers, products, sales := fixtures()

	stats, err := loader.New(sink).Run(ctx, customers, products, sales)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.CustomersLoaded != 2 || stats.ProductsLoaded != 2 || stats.OrdersLoaded != 2 || stats.SalesSkipped != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	// Inspect the database directly.
	h, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open for inspection: %v", err)
	}
	defer h.Close()

	var orders, items int
	if err := h.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orders); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := h.QueryRow("SELECT COUNT(*) FROM order_items").Scan(&items); err != nil {
		t.Fatalf("count order_items: %v", err)
	}
	if orders != 2 || items != 2 {
		t.Fatalf("orders=%d items=%d, want 2 each (one item per order)", orders, items)
	}

	// total_amount on the order equals its single item's subtotal.
	var mismatched int
	err = h.QueryRow(`
		SELECT COUNT(*) FROM orders o
		JOIN order_items i ON i.order_id = o.order_id
		WHERE o.total_amount <> i.subtotal`).Scan(&mismatched)
	if err != nil {
		t.Fatalf("totals query: %v", err)
	}
	if mismatched != 0 {
		t.Fatalf("%d orders disagree with their item subtotal", mismatched)
	}

	var total float64
	err = h.QueryRow(`
		SELECT o.total_amount FROM orders o
		JOIN order_items i ON i.order_id = o.order_id
		WHERE i.quantity = 2`).Scan(&total)
	if err != nil {
		t.Fatalf("T1 total query: %v", err)
	}
	if total != 999.00 {
		t.Fatalf("T1 total = %v, want 999.00", total)
	}
}

func TestDoubleLoadProducesDisjointIDs(t *testing.T) {
	// Loading the same clean tables twice inserts two full row sets with
	// fresh sink-assigned ids. There is no implicit cross-run dedup; that is
	// expected behavior, not a bug. Emails are unique per batch, so the
	// second run uses its own addresses.
	sink, path := openSQLite(t)
	ctx := context.Background()

	_, products, _ := fixtures()
	run1 := []domain.CleanCustomer{{SourceID: "C1", FirstName: "A", LastName: "B", Email: "r1@x.com"}}
	run2 := []domain.CleanCustomer{{SourceID: "C1", FirstName: "A", LastName: "B", Email: "r2@x.com"}}

	if _, err := loader.New(sink).Run(ctx, run1, products, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.New(sink).Run(ctx, run2, products, nil); err != nil {
		t.Fatalf("second load: %v", err)
	}

	h, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open for inspection: %v", err)
	}
	defer h.Close()

	var n, distinct int
	if err := h.QueryRow("SELECT COUNT(*), COUNT(DISTINCT customer_id) FROM customers").Scan(&n, &distinct); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if n != 2 || distinct != 2 {
		t.Fatalf("customers rows=%d distinct ids=%d, want 2/2", n, distinct)
	}
}

func TestUniqueEmailConstraintSurfaces(t *testing.T) {
	// A second batch reusing an email hits the sink's UNIQUE backstop and
	// propagates as a load failure.
	sink, _ := openSQLite(t)
	ctx := context.Background()

	batch := []domain.CleanCustomer{{SourceID: "C1", FirstName: "A", LastName: "B", Email: "same@x.com"}}
	if _, err := loader.New(sink).Run(ctx, batch, nil, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.New(sink).Run(ctx, batch, nil, nil); err == nil {
		t.Fatal("want unique constraint violation on second load")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := db.Open(context.Background(), "oracle", "dsn"); err == nil {
		t.Fatal("want error for unsupported driver")
	}
}
