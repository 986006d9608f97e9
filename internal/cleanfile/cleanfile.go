// Package cleanfile persists the cleaned tables as CSV files, one per
// entity. These files are the observable output of the transform stage and
// the input the quality reporter and loader were validated against.
package cleanfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// Absent values serialize as empty cells.

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteCustomers writes the cleaned customer table to path.
func WriteCustomers(path string, rows []domain.CleanCustomer) error {
	header := []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, []string{
			c.SourceID, c.FirstName, c.LastName, c.Email,
			optString(c.Phone), optString(c.City), optDate(c.RegistrationDate),
		})
	}
	return writeCSV(path, header, out)
}

// WriteProducts writes the cleaned product table to path.
func WriteProducts(path string, rows []domain.CleanProduct) error {
	header := []string{"product_id", "product_name", "category", "price", "stock_quantity"}
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.SourceID, p.ProductName, optString(p.Category),
			money(p.Price), strconv.Itoa(p.StockQuantity),
		})
	}
	return writeCSV(path, header, out)
}

// WriteSales writes the cleaned sales table to path.
func WriteSales(path string, rows []domain.CleanSale) error {
	header := []string{"transaction_id", "customer_id", "product_id", "quantity", "unit_price", "transaction_date"}
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, []string{
			s.TransactionID, s.SourceCustomerID, s.SourceProductID,
			strconv.Itoa(s.Quantity), money(s.UnitPrice), optDate(s.TransactionDate),
		})
	}
	return writeCSV(path, header, out)
}
