// Package loader implements the load stage: inserting cleaned rows into the
// relational sink while remapping source-side identifiers to sink-assigned
// ones.
//
// Commit granularity is per phase, not per row: customers, then products,
// then the combined sales/orders/order_items batch. A phase that fails rolls
// back its own in-flight transaction; phases already committed stay put.
// There is no cross-phase compensation — acceptable for a single-operator
// offline batch, and a deliberate tradeoff over all-or-nothing semantics.
package loader

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/db"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// Stats reports what the load stage actually materialized. SalesSkipped
// counts sales whose customer mapping was absent; those are dropped by
// design, but the count is surfaced for observability.
type Stats struct {
	CustomersLoaded int
	ProductsLoaded  int
	OrdersLoaded    int
	SalesSkipped    int
}

// Loader drives the load phases against a Sink.
type Loader struct {
	sink db.Sink
}

// New returns a Loader writing to sink. The caller owns the sink's lifetime.
func New(sink db.Sink) *Loader { return &Loader{sink: sink} }

// Run ensures the schema and executes the three load phases in order. Rows
// are inserted in clean-table order, which keeps sink-assigned ids
// deterministic for a given input. Each phase is a barrier: its identity map
// is complete before the next phase starts.
func (l *Loader) Run(
	ctx context.Context,
	customers []domain.CleanCustomer,
	products []domain.CleanProduct,
	sales []domain.CleanSale,
) (Stats, error) {
	var stats Stats

	if err := l.sink.EnsureSchema(ctx); err != nil {
		return stats, err
	}

	customerIDs, err := l.loadCustomers(ctx, customers)
	if err != nil {
		return stats, err
	}
	stats.CustomersLoaded = customerIDs.Len()

	productIDs, err := l.loadProducts(ctx, products)
	if err != nil {
		return stats, err
	}
	stats.ProductsLoaded = productIDs.Len()

	stats.OrdersLoaded, stats.SalesSkipped, err = l.loadSales(ctx, sales, customerIDs, productIDs)
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// phase wraps fn in one transaction, rolling back on error.
func (l *Loader) phase(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	log.Printf("load %s: start", name)
	if err := l.sink.Begin(ctx); err != nil {
		return fmt.Errorf("load %s: begin: %w", name, err)
	}
	if err := fn(); err != nil {
		_ = l.sink.Rollback(ctx)
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := l.sink.Commit(ctx); err != nil {
		return fmt.Errorf("load %s: commit: %w", name, err)
	}
	log.Printf("load %s: done elapsed=%s", name, time.Since(start).Truncate(time.Millisecond))
	return nil
}

func (l *Loader) loadCustomers(ctx context.Context, customers []domain.CleanCustomer) (*domain.IdentityMap, error) {
	ids := domain.NewIdentityMap("customer")
	err := l.phase(ctx, "customers", func() error {
		for _, c := range customers {
			id, err := l.sink.InsertCustomer(ctx, c)
			if err != nil {
				return err
			}
			if err := ids.Add(c.SourceID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (l *Loader) loadProducts(ctx context.Context, products []domain.CleanProduct) (*domain.IdentityMap, error) {
	ids := domain.NewIdentityMap("product")
	err := l.phase(ctx, "products", func() error {
		for _, p := range products {
			id, err := l.sink.InsertProduct(ctx, p)
			if err != nil {
				return err
			}
			if err := ids.Add(p.SourceID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// loadSales materializes each sale as one order plus its single line item.
//
// The two referential gaps are handled asymmetrically on purpose. A sale
// whose customer was dropped during cleaning (duplicate or missing email)
// has no mapping; the sale is skipped and counted. Product cleaning never
// drops rows, so a missing product mapping means the clean tables are
// inconsistent with each other — that aborts the phase, naming the
// transaction that exposed it.
func (l *Loader) loadSales(
	ctx context.Context,
	sales []domain.CleanSale,
	customerIDs, productIDs *domain.IdentityMap,
) (orders, skipped int, err error) {
	err = l.phase(ctx, "sales", func() error {
		for _, s := range sales {
			customerID, ok := customerIDs.Lookup(s.SourceCustomerID)
			if !ok {
				skipped++
				continue
			}
			productID, ok := productIDs.Lookup(s.SourceProductID)
			if !ok {
				return fmt.Errorf("transaction %s: product %q has no identity mapping", s.TransactionID, s.SourceProductID)
			}

			total := domain.Round2(float64(s.Quantity) * s.UnitPrice)
			orderID, err := l.sink.InsertOrder(ctx, domain.Order{
				CustomerID:  customerID,
				OrderDate:   s.TransactionDate,
				TotalAmount: total,
				Status:      domain.OrderStatusDefault,
			})
			if err != nil {
				return err
			}
			if _, err := l.sink.InsertOrderItem(ctx, domain.OrderItem{
				OrderID:   orderID,
				ProductID: productID,
				Quantity:  s.Quantity,
				UnitPrice: s.UnitPrice,
				Subtotal:  total,
			}); err != nil {
				return err
			}
			orders++
		}
		if skipped > 0 {
			log.Printf("load sales: skipped %d sales with unmapped customers", skipped)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return orders, skipped, nil
}
