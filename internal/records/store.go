package records

import (
	"fmt"
	"path/filepath"

	"github.com/alexanderramin/autofin/internal/domain"
)

// Paths locates the tabular sources and SOP files.
type Paths struct {
	Customers   string
	Payments    string
	Claims      string
	SOPDocument string
	SOPPatterns string
}

// DefaultPaths returns the conventional file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Customers:   filepath.Join(dir, "customers.csv"),
		Payments:    filepath.Join(dir, "payments.csv"),
		Claims:      filepath.Join(dir, "claims.csv"),
		SOPDocument: filepath.Join(dir, "sop.json"),
		SOPPatterns: filepath.Join(dir, "sop_data.json"),
	}
}

// Store holds the read-only customer and payment views plus the claim ledger.
// It is loaded once per process.
type Store struct {
	customerTable *Table
	customers     []domain.Customer
	payments      []domain.PaymentRecord
	claims        *ClaimLedger
}

// Open loads customers and payments from paths and binds the claim store.
func Open(paths Paths, claims ClaimStore) (*Store, error) {
	customerTable, err := LoadTable(paths.Customers)
	if err != nil {
		return nil, fmt.Errorf("loading customers: %w", err)
	}
	paymentTable, err := LoadTable(paths.Payments)
	if err != nil {
		return nil, fmt.Errorf("loading payments: %w", err)
	}
	return NewStore(customerTable, paymentTable, claims), nil
}

// NewStore builds a Store from already-loaded tables.
func NewStore(customers, payments *Table, claims ClaimStore) *Store {
	if customers == nil {
		customers = &Table{}
	}
	return &Store{
		customerTable: customers,
		customers:     Customers(customers),
		payments:      Payments(payments),
		claims:        NewClaimLedger(claims),
	}
}

// Customers returns the normalized customer rows in source order.
func (s *Store) Customers() []domain.Customer {
	return s.customers
}

// HasCustomerColumn reports whether the customer source carries a canonical column.
func (s *Store) HasCustomerColumn(col string) bool {
	return s.customerTable.HasColumn(col)
}

// Payments returns the payment rows in source order.
func (s *Store) Payments() []domain.PaymentRecord {
	return s.payments
}

// Claims returns the claim ledger.
func (s *Store) Claims() *ClaimLedger {
	return s.claims
}
