package domain

import "strings"

// Customer is a canonical identity row. Column aliases are resolved at load time.
type Customer struct {
	CustomerID string
	LoanID     string
	FirstName  string
	LastName   string
	FullName   string
	Phone      string
	Vehicle    string
	City       string

	// Extra holds columns outside the canonical schema, keyed by their header.
	Extra map[string]string
}

// Key returns the identifier used to address the customer downstream:
// the customer id when present, otherwise the loan id.
func (c Customer) Key() string {
	return CoalesceStr(c.CustomerID, c.LoanID)
}

// SplitName splits a full name on its first space into first and last parts.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}
