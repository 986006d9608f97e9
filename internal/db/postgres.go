package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// pgConnLike is the minimal subset of *pgx.Conn the adapter uses. The seam
// allows injecting a test double for hermetic (non-networked) tests.
type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// pgSink is the Postgres adapter. A single connection, one optional open
// transaction at a time.
type pgSink struct {
	conn pgConnLike
	tx   pgx.Tx
}

// NewPostgresSink connects via pgx and wraps the connection in a Sink.
// Callers are responsible for closing it via Close.
func NewPostgresSink(ctx context.Context, dsn string) (Sink, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	return &pgSink{conn: c}, nil
}

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		phone VARCHAR(20),
		city VARCHAR(50),
		registration_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		product_name VARCHAR(100) NOT NULL,
		category VARCHAR(50),
		price NUMERIC(10,2) NOT NULL,
		stock_quantity INT DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		customer_id INT NOT NULL REFERENCES customers(customer_id),
		order_date DATE,
		total_amount NUMERIC(10,2) NOT NULL,
		status VARCHAR(20) DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		product_id INT NOT NULL REFERENCES products(product_id),
		quantity INT NOT NULL,
		unit_price NUMERIC(10,2) NOT NULL,
		subtotal NUMERIC(10,2) NOT NULL
	)`,
}

func (p *pgSink) EnsureSchema(ctx context.Context) error {
	for _, ddl := range pgSchema {
		if _, err := p.conn.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (p *pgSink) Begin(ctx context.Context) error {
	if p.tx != nil {
		return fmt.Errorf("postgres: transaction already open")
	}
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}
	p.tx = tx
	return nil
}

func (p *pgSink) Commit(ctx context.Context) error {
	if p.tx == nil {
		return fmt.Errorf("postgres: no open transaction")
	}
	err := p.tx.Commit(ctx)
	p.tx = nil
	return err
}

func (p *pgSink) Rollback(ctx context.Context) error {
	if p.tx == nil {
		return nil
	}
	err := p.tx.Rollback(ctx)
	p.tx = nil
	return err
}

// insertReturning builds "INSERT ... RETURNING id" and scans the assigned id
// from the current transaction when one is open, else from the connection.
func (p *pgSink) insertReturning(ctx context.Context, table string, columns []string, idColumn string, args []any) (int64, error) {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(columns, ", "), strings.Join(ph, ", "), idColumn,
	)
	var row pgx.Row
	if p.tx != nil {
		row = p.tx.QueryRow(ctx, sql, args...)
	} else {
		row = p.conn.QueryRow(ctx, sql, args...)
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}

func (p *pgSink) InsertCustomer(ctx context.Context, c domain.CleanCustomer) (int64, error) {
	return p.insertReturning(ctx, "customers", customerColumns, "customer_id", customerArgs(c))
}

func (p *pgSink) InsertProduct(ctx context.Context, pr domain.CleanProduct) (int64, error) {
	return p.insertReturning(ctx, "products", productColumns, "product_id", productArgs(pr))
}

func (p *pgSink) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	return p.insertReturning(ctx, "orders", orderColumns, "order_id", orderArgs(o))
}

func (p *pgSink) InsertOrderItem(ctx context.Context, it domain.OrderItem) (int64, error) {
	return p.insertReturning(ctx, "order_items", orderItemColumns, "order_item_id", orderItemArgs(it))
}

func (p *pgSink) Close(ctx context.Context) error {
	if p.tx != nil {
		_ = p.tx.Rollback(ctx)
		p.tx = nil
	}
	return p.conn.Close(ctx)
}
