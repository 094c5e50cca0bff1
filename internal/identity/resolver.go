// Package identity resolves a loosely identified requester to one canonical
// customer row.
package identity

import (
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/records"
)

// User-facing failure reasons.
const (
	ReasonNotFound      = "not found"
	ReasonNoQuery       = "no verification info provided"
	ReasonNoData        = "no customer data available"
	ReasonNoLoanColumn  = "loan id column missing in data"
	ReasonNoPhoneColumn = "phone column missing in data"
	ReasonNoNameColumn  = "name column missing in data"
)

// Query carries the identifying fragments supplied by the requester.
// Only one field is consulted, in the order Loan, Phone, Name.
type Query struct {
	Name  string
	Loan  string
	Phone string
}

// Empty reports whether no field carries a usable value.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Loan) == "" &&
		strings.TrimSpace(q.Phone) == "" &&
		strings.TrimSpace(q.Name) == ""
}

// CustomerSource is the read side of the record store the resolver needs.
type CustomerSource interface {
	Customers() []domain.Customer
	HasCustomerColumn(col string) bool
}

// Resolver looks customers up in a CustomerSource. It has no side effects.
type Resolver struct {
	src CustomerSource
}

func NewResolver(src CustomerSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve finds at most one customer for q.
func (r *Resolver) Resolve(q Query) domain.Verification {
	loan := strings.TrimSpace(q.Loan)
	phone := strings.TrimSpace(q.Phone)
	name := strings.TrimSpace(q.Name)

	if loan == "" && phone == "" && name == "" {
		return domain.Unverified(ReasonNoQuery, domain.ErrIdentityNotFound)
	}

	customers := r.src.Customers()
	if len(customers) == 0 {
		return domain.Unverified(ReasonNoData, domain.ErrDataUnavailable)
	}

	switch {
	case loan != "":
		if !r.src.HasCustomerColumn(records.ColLoanID) {
			return domain.Unverified(ReasonNoLoanColumn, domain.ErrSchemaMissing)
		}
		return firstMatch(customers, func(c domain.Customer) bool {
			return strings.EqualFold(strings.TrimSpace(c.LoanID), loan)
		})

	case phone != "":
		if !r.src.HasCustomerColumn(records.ColPhone) {
			return domain.Unverified(ReasonNoPhoneColumn, domain.ErrSchemaMissing)
		}
		digits := NormalizePhone(phone)
		if digits == "" {
			return domain.Unverified(ReasonNotFound, domain.ErrIdentityNotFound)
		}
		return firstMatch(customers, func(c domain.Customer) bool {
			return NormalizePhone(c.Phone) == digits
		})

	default:
		if !r.src.HasCustomerColumn(records.ColFullName) {
			return domain.Unverified(ReasonNoNameColumn, domain.ErrSchemaMissing)
		}
		needle := strings.ToLower(name)
		return firstMatch(customers, func(c domain.Customer) bool {
			return strings.Contains(strings.ToLower(c.FullName), needle)
		})
	}
}

func firstMatch(customers []domain.Customer, match func(domain.Customer) bool) domain.Verification {
	for _, c := range customers {
		if match(c) {
			return domain.Verified(c)
		}
	}
	return domain.Unverified(ReasonNotFound, domain.ErrIdentityNotFound)
}

// NormalizePhone strips everything but ASCII digits.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
