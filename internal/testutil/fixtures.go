package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/autofin/internal/records"
)

// CustomerHeaderSplit uses the split-name, loan_number header style.
var CustomerHeaderSplit = []string{"customer_id", "first_name", "last_name", "loan_number", "phone", "vehicle_model", "registered_city"}

// CustomerHeaderCompact uses the single-name, CamelCase header style.
var CustomerHeaderCompact = []string{"CustomerID", "CustomerName", "LoanID", "Phone", "Vehicle", "City"}

// PaymentHeader mirrors the payments export.
var PaymentHeader = []string{"customer_id", "loan_number", "last_payment_date", "next_due_date", "emi_amount", "outstanding_balance", "payment_status", "overdue_days", "remarks"}

// ClaimHeader mirrors the claims export.
var ClaimHeader = []string{"claim_id", "customer_id", "incident_type", "incident_date", "claim_status", "estimated_damage", "service_center", "claim_amount", "settlement_date", "remarks"}

// DataSet describes the CSV files written by SeedDataDir.
type DataSet struct {
	CustomerHeader []string
	Customers      [][]string
	Payments       [][]string
	Claims         [][]string
	// SOPDocument is written verbatim to sop.json when non-empty.
	SOPDocument string
	// SOPPatterns is written verbatim to sop_data.json when non-empty.
	SOPPatterns string
}

// DataOption mutates the default data set.
type DataOption func(*DataSet)

func WithCustomers(header []string, rows ...[]string) DataOption {
	return func(d *DataSet) {
		d.CustomerHeader = header
		d.Customers = rows
	}
}

func WithPayments(rows ...[]string) DataOption {
	return func(d *DataSet) {
		d.Payments = rows
	}
}

func WithClaims(rows ...[]string) DataOption {
	return func(d *DataSet) {
		d.Claims = rows
	}
}

func WithoutClaims() DataOption {
	return func(d *DataSet) {
		d.Claims = nil
	}
}

func WithSOPDocument(raw string) DataOption {
	return func(d *DataSet) {
		d.SOPDocument = raw
	}
}

func WithSOPPatterns(raw string) DataOption {
	return func(d *DataSet) {
		d.SOPPatterns = raw
	}
}

// DefaultDataSet returns three customers, their payments and one settled claim.
func DefaultDataSet() DataSet {
	return DataSet{
		CustomerHeader: CustomerHeaderSplit,
		Customers: [][]string{
			{"C001", "John", "Doe", "LN001", "987-654-3210", "Swift", "Pune"},
			{"C002", "Priya", "Sharma", "LN002", "+91 98765 43211", "Creta", "Delhi"},
			{"C003", "Johnny", "Walker", "LN003", "9876543212", "Nexon", "Mumbai"},
		},
		Payments: [][]string{
			{"C001", "LN001", "2025-05-05", "2025-06-05", "12500", "350000", "Current", "0", "Auto-debit active"},
			{"C001", "LN001", "2025-04-05", "2025-05-05", "12500", "362500", "Paid", "0", "Older row"},
			{"C002", "LN002", "2025-03-05", "2025-04-05", "18000", "610000", "Overdue", "12", "Reminder sent"},
		},
		Claims: [][]string{
			{"CLM001", "C002", "Theft", "2025-01-10", "Settled", "40000", "Delhi Motors", "38000", "2025-02-01", "Closed"},
		},
	}
}

// SeedDataDir writes the data set as CSV/JSON files into a temp dir and
// returns the resolved paths.
func SeedDataDir(t *testing.T, opts ...DataOption) records.Paths {
	t.Helper()
	ds := DefaultDataSet()
	for _, opt := range opts {
		opt(&ds)
	}

	dir := t.TempDir()
	paths := records.DefaultPaths(dir)

	WriteCSV(t, paths.Customers, ds.CustomerHeader, ds.Customers...)
	WriteCSV(t, paths.Payments, PaymentHeader, ds.Payments...)
	if ds.Claims != nil {
		WriteCSV(t, paths.Claims, ClaimHeader, ds.Claims...)
	}
	if ds.SOPDocument != "" {
		WriteFile(t, paths.SOPDocument, ds.SOPDocument)
	}
	if ds.SOPPatterns != "" {
		WriteFile(t, paths.SOPPatterns, ds.SOPPatterns)
	}
	return paths
}

// NewTestStore seeds a data dir and opens a Store with a CSV claim store.
func NewTestStore(t *testing.T, opts ...DataOption) (*records.Store, records.Paths) {
	t.Helper()
	paths := SeedDataDir(t, opts...)
	store, err := records.Open(paths, records.NewCSVClaimStore(paths.Claims))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	return store, paths
}

// WriteCSV writes header and rows to path, creating parent directories.
func WriteCSV(t *testing.T, path string, header []string, rows ...[]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("writing rows: %v", err)
	}
}

// WriteFile writes raw content to path.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// CountLines returns the number of non-empty lines in a file.
func CountLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	n := 0
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				n++
			}
			start = i + 1
		}
	}
	if start < len(data) {
		n++
	}
	return n
}
