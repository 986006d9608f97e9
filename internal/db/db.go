// Package db provides the relational sink behind the load stage. The Sink
// interface is the storage-agnostic contract: idempotent schema creation,
// parameterized inserts returning the sink-assigned identifier, and
// commit/rollback at the granularity the loader chooses.
//
// Adapters exist for Postgres (pgx, the fast path), and for MySQL, SQLite,
// and MSSQL behind database/sql. Each adapter holds a single connection used
// sequentially; the pipeline has no parallel writers.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// Sink is a relational destination for one pipeline run.
//
// Begin/Commit bracket one load phase; the loader commits after each table's
// full batch, not per row. Inserts outside an open transaction run in
// autocommit mode.
type Sink interface {
	// EnsureSchema creates the four target tables if absent. Safe to run
	// against an existing schema.
	EnsureSchema(ctx context.Context) error

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Each insert returns the sink-assigned identifier of the new row.
	InsertCustomer(ctx context.Context, c domain.CleanCustomer) (int64, error)
	InsertProduct(ctx context.Context, p domain.CleanProduct) (int64, error)
	InsertOrder(ctx context.Context, o domain.Order) (int64, error)
	InsertOrderItem(ctx context.Context, it domain.OrderItem) (int64, error)

	Close(ctx context.Context) error
}

// Open connects to the sink selected by driver: "postgres" (pgx), "mysql",
// "sqlite" (modernc, pure Go), or "mssql". The DSN format is driver-specific
// and comes from configuration, never from code.
func Open(ctx context.Context, driver, dsn string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pgx":
		return NewPostgresSink(ctx, dsn)
	case "mysql":
		return NewSQLSink(ctx, "mysql", dsn, mysqlDialect)
	case "sqlite", "sqlite3":
		return NewSQLSink(ctx, "sqlite", dsn, sqliteDialect)
	case "mssql", "sqlserver":
		return NewSQLSink(ctx, "sqlserver", dsn, mssqlDialect)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// Column orders shared by every adapter. Identity columns are sink-assigned
// and never inserted.
var (
	customerColumns  = []string{"first_name", "last_name", "email", "phone", "city", "registration_date"}
	productColumns   = []string{"product_name", "category", "price", "stock_quantity"}
	orderColumns     = []string{"customer_id", "order_date", "total_amount", "status"}
	orderItemColumns = []string{"order_id", "product_id", "quantity", "unit_price", "subtotal"}
)

func customerArgs(c domain.CleanCustomer) []any {
	return []any{c.FirstName, c.LastName, c.Email, c.Phone, c.City, c.RegistrationDate}
}

func productArgs(p domain.CleanProduct) []any {
	return []any{p.ProductName, p.Category, p.Price, p.StockQuantity}
}

func orderArgs(o domain.Order) []any {
	return []any{o.CustomerID, o.OrderDate, o.TotalAmount, o.Status}
}

func orderItemArgs(it domain.OrderItem) []any {
	return []any{it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal}
}
