package cleanfile

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func TestWriteCustomersAbsentAsEmptyCell(t *testing.T) {
	reg, _ := time.Parse("2006-01-02", "2024-01-15")
	phone := "+919876543210"
	rows := []domain.CleanCustomer{
		{SourceID: "C1", FirstName: "Asha", LastName: "Rao", Email: "a@x.com", Phone: &phone, RegistrationDate: &reg},
		{SourceID: "C2", FirstName: "Vik", LastName: "Shah", Email: "v@x.com"},
	}
	path := filepath.Join(t.TempDir(), "customers_clean.csv")
	if err := WriteCustomers(path, rows); err != nil {
		t.Fatalf("WriteCustomers: %v", err)
	}

	got := readBack(t, path)
	want := [][]string{
		{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"},
		{"C1", "Asha", "Rao", "a@x.com", "+919876543210", "", "2024-01-15"},
		{"C2", "Vik", "Shah", "v@x.com", "", "", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWriteProductsMoneyFormat(t *testing.T) {
	cat := "Electronics"
	rows := []domain.CleanProduct{
		{SourceID: "P1", ProductName: "Laptop", Category: &cat, Price: 549.5, StockQuantity: 3},
	}
	path := filepath.Join(t.TempDir(), "products_clean.csv")
	if err := WriteProducts(path, rows); err != nil {
		t.Fatalf("WriteProducts: %v", err)
	}
	got := readBack(t, path)
	if got[1][3] != "549.50" {
		t.Fatalf("price cell = %q, want two fraction digits", got[1][3])
	}
}

func TestWriteSales(t *testing.T) {
	d, _ := time.Parse("2006-01-02", "2024-05-01")
	rows := []domain.CleanSale{
		{TransactionID: "T1", SourceCustomerID: "C1", SourceProductID: "P1", Quantity: 2, UnitPrice: 499.5, TransactionDate: &d},
	}
	path := filepath.Join(t.TempDir(), "sales_clean.csv")
	if err := WriteSales(path, rows); err != nil {
		t.Fatalf("WriteSales: %v", err)
	}
	got := readBack(t, path)
	want := []string{"T1", "C1", "P1", "2", "499.50", "2024-05-01"}
	if !reflect.DeepEqual(got[1], want) {
		t.Fatalf("row = %v want %v", got[1], want)
	}
}
