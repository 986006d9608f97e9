package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Drivers selected by name in Open; imported for their side effects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// dialect captures the engine-specific pieces of the portable adapter: DDL,
// placeholder syntax, and how the sink-assigned id comes back from an insert.
type dialect struct {
	name string

	// schema lists idempotent DDL statements executed in order.
	schema []string

	// placeholder renders the i-th (1-based) parameter marker.
	placeholder func(i int) string

	// lastInsertID selects the id retrieval strategy. True: insert with
	// ExecContext and read Result.LastInsertId (MySQL, SQLite). False:
	// append an OUTPUT clause and scan the id from a query row (MSSQL).
	lastInsertID bool
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx, letting inserts run
// inside the open phase transaction or in autocommit mode.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlSink is the database/sql adapter shared by the MySQL, SQLite, and MSSQL
// dialects. One connection pool, one optional open transaction at a time.
type sqlSink struct {
	db *sql.DB
	tx *sql.Tx
	d  dialect
}

// NewSQLSink opens a database/sql connection for the given registered driver
// and pings it so a bad DSN fails fast.
func NewSQLSink(ctx context.Context, driver, dsn string, d dialect) (Sink, error) {
	h, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", d.name, err)
	}
	// The sink is a single shared resource used sequentially by schema
	// ensure and the load phases. One connection also keeps an in-memory
	// SQLite database alive across statements.
	h.SetMaxOpenConns(1)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.PingContext(pingCtx); err != nil {
		h.Close()
		return nil, fmt.Errorf("%s ping: %w", d.name, err)
	}
	if d.name == "sqlite" {
		// The driver leaves foreign keys off by default.
		if _, err := h.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			h.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	return &sqlSink{db: h, d: d}, nil
}

func (s *sqlSink) EnsureSchema(ctx context.Context) error {
	for _, ddl := range s.d.schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("%s ensure schema: %w", s.d.name, err)
		}
	}
	return nil
}

func (s *sqlSink) Begin(ctx context.Context) error {
	if s.tx != nil {
		return fmt.Errorf("%s: transaction already open", s.d.name)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

func (s *sqlSink) Commit(ctx context.Context) error {
	if s.tx == nil {
		return fmt.Errorf("%s: no open transaction", s.d.name)
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

func (s *sqlSink) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

func (s *sqlSink) runner() execQuerier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *sqlSink) insertReturning(ctx context.Context, table string, columns []string, idColumn string, args []any) (int64, error) {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = s.d.placeholder(i + 1)
	}
	if s.d.lastInsertID {
		q := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), strings.Join(ph, ", "),
		)
		res, err := s.runner().ExecContext(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert %s: last insert id: %w", table, err)
		}
		return id, nil
	}
	// MSSQL path: the id comes back as a result row.
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) OUTPUT INSERTED.%s VALUES (%s)",
		table, strings.Join(columns, ", "), idColumn, strings.Join(ph, ", "),
	)
	var id int64
	if err := s.runner().QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}

func (s *sqlSink) InsertCustomer(ctx context.Context, c domain.CleanCustomer) (int64, error) {
	return s.insertReturning(ctx, "customers", customerColumns, "customer_id", customerArgs(c))
}

func (s *sqlSink) InsertProduct(ctx context.Context, p domain.CleanProduct) (int64, error) {
	return s.insertReturning(ctx, "products", productColumns, "product_id", productArgs(p))
}

func (s *sqlSink) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	return s.insertReturning(ctx, "orders", orderColumns, "order_id", orderArgs(o))
}

func (s *sqlSink) InsertOrderItem(ctx context.Context, it domain.OrderItem) (int64, error) {
	return s.insertReturning(ctx, "order_items", orderItemColumns, "order_item_id", orderItemArgs(it))
}

func (s *sqlSink) Close(ctx context.Context) error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}

func questionMark(int) string { return "?" }

// mysqlDialect mirrors the schema the original FlexiMart database used,
// except that order_date allows NULL: transaction dates that fail every
// accepted format land as absent, and absent must be loadable.
var mysqlDialect = dialect{
	name:         "mysql",
	placeholder:  questionMark,
	lastInsertID: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INT PRIMARY KEY AUTO_INCREMENT,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			phone VARCHAR(20),
			city VARCHAR(50),
			registration_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id INT PRIMARY KEY AUTO_INCREMENT,
			product_name VARCHAR(100) NOT NULL,
			category VARCHAR(50),
			price DECIMAL(10,2) NOT NULL,
			stock_quantity INT DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INT PRIMARY KEY AUTO_INCREMENT,
			customer_id INT NOT NULL,
			order_date DATE,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) DEFAULT 'Pending',
			FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id INT PRIMARY KEY AUTO_INCREMENT,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(order_id),
			FOREIGN KEY (product_id) REFERENCES products(product_id)
		)`,
	},
}

var sqliteDialect = dialect{
	name:         "sqlite",
	placeholder:  questionMark,
	lastInsertID: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT,
			city TEXT,
			registration_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name TEXT NOT NULL,
			category TEXT,
			price NUMERIC NOT NULL,
			stock_quantity INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
			order_date DATE,
			total_amount NUMERIC NOT NULL,
			status TEXT DEFAULT 'Pending'
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL REFERENCES orders(order_id),
			product_id INTEGER NOT NULL REFERENCES products(product_id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC NOT NULL,
			subtotal NUMERIC NOT NULL
		)`,
	},
}

func mssqlPlaceholder(i int) string { return fmt.Sprintf("@p%d", i) }

var mssqlDialect = dialect{
	name:         "mssql",
	placeholder:  mssqlPlaceholder,
	lastInsertID: false,
	schema: []string{
		`IF OBJECT_ID(N'customers', N'U') IS NULL
		CREATE TABLE customers (
			customer_id INT IDENTITY(1,1) PRIMARY KEY,
			first_name NVARCHAR(50) NOT NULL,
			last_name NVARCHAR(50) NOT NULL,
			email NVARCHAR(100) NOT NULL UNIQUE,
			phone NVARCHAR(20),
			city NVARCHAR(50),
			registration_date DATE
		)`,
		`IF OBJECT_ID(N'products', N'U') IS NULL
		CREATE TABLE products (
			product_id INT IDENTITY(1,1) PRIMARY KEY,
			product_name NVARCHAR(100) NOT NULL,
			category NVARCHAR(50),
			price DECIMAL(10,2) NOT NULL,
			stock_quantity INT DEFAULT 0
		)`,
		`IF OBJECT_ID(N'orders', N'U') IS NULL
		CREATE TABLE orders (
			order_id INT IDENTITY(1,1) PRIMARY KEY,
			customer_id INT NOT NULL REFERENCES customers(customer_id),
			order_date DATE,
			total_amount DECIMAL(10,2) NOT NULL,
			status NVARCHAR(20) DEFAULT 'Pending'
		)`,
		`IF OBJECT_ID(N'order_items', N'U') IS NULL
		CREATE TABLE order_items (
			order_item_id INT IDENTITY(1,1) PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(order_id),
			product_id INT NOT NULL REFERENCES products(product_id),
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL
		)`,
	},
}
