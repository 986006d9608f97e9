// Package pipeline orchestrates one batch run: extract the three raw
// tables, clean them, persist the clean CSVs and the quality report, then
// hand the clean tables to the identifier-remapping loader.
//
// The orchestrator owns the lifetime of every intermediate table; no stage
// shares mutable state with another.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/clean"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/cleanfile"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/config"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/db"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/extract"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/loader"
	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/report"
)

// Result carries the observable outcome of a full run.
type Result struct {
	Customers domain.QualityCounters
	Products  domain.QualityCounters
	Sales     domain.QualityCounters
	Load      loader.Stats
}

// Run executes the full batch. Any extract read failure aborts before any
// transform occurs; there is no partial recovery.
func Run(ctx context.Context, cfg *config.Config) (Result, error) {
	var res Result

	rawCustomers, err := extract.ReadTable(cfg.CustomersCSV)
	if err != nil {
		return res, err
	}
	rawProducts, err := extract.ReadTable(cfg.ProductsCSV)
	if err != nil {
		return res, err
	}
	rawSales, err := extract.ReadTable(cfg.SalesCSV)
	if err != nil {
		return res, err
	}
	log.Printf("extract: customers=%d products=%d sales=%d rows", len(rawCustomers), len(rawProducts), len(rawSales))

	// The three cleans are independent of each other; the group wait is the
	// phase barrier before anything is persisted.
	var (
		customers []domain.CleanCustomer
		products  []domain.CleanProduct
		sales     []domain.CleanSale
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		customers, res.Customers = clean.Customers(rawCustomers)
		return nil
	})
	g.Go(func() error {
		products, res.Products = clean.Products(rawProducts)
		return nil
	})
	g.Go(func() error {
		sales, res.Sales = clean.Sales(rawSales)
		return nil
	})
	if err := g.Wait(); err != nil {
		return res, err
	}
	log.Printf("clean: customers=%d products=%d sales=%d rows", len(customers), len(products), len(sales))

	if err := cleanfile.WriteCustomers(cfg.CleanPath("customers"), customers); err != nil {
		return res, err
	}
	if err := cleanfile.WriteProducts(cfg.CleanPath("products"), products); err != nil {
		return res, err
	}
	if err := cleanfile.WriteSales(cfg.CleanPath("sales"), sales); err != nil {
		return res, err
	}

	if err := report.Write(cfg.ReportPath, res.Customers, res.Products, res.Sales); err != nil {
		return res, err
	}
	log.Printf("report: written to %s", cfg.ReportPath)

	if cfg.SkipLoad {
		log.Printf("load: skipped (skip_load set)")
		return res, nil
	}

	sink, err := db.Open(ctx, cfg.DBDriver, cfg.DSN)
	if err != nil {
		return res, fmt.Errorf("open sink: %w", err)
	}
	defer sink.Close(ctx)

	res.Load, err = loader.New(sink).Run(ctx, customers, products, sales)
	if err != nil {
		return res, err
	}
	log.Printf("load: customers=%d products=%d orders=%d skipped_sales=%d",
		res.Load.CustomersLoaded, res.Load.ProductsLoaded, res.Load.OrdersLoaded, res.Load.SalesSkipped)
	return res, nil
}
