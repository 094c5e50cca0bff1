package domain

// Verification is the result of an identity lookup. It lives in session memory
// for the rest of the conversation and is never persisted.
type Verification struct {
	OK     bool
	Reason string
	Err    error

	CustomerID string
	FirstName  string
	LastName   string
	Customer   Customer
}

// Verified builds a successful verification for the given customer row.
func Verified(c Customer) Verification {
	first, last := SplitName(c.FullName)
	return Verification{
		OK:         true,
		CustomerID: c.Key(),
		FirstName:  first,
		LastName:   last,
		Customer:   c,
	}
}

// Unverified builds a failed verification carrying a user-facing reason and a
// taxonomy sentinel for errors.Is checks.
func Unverified(reason string, err error) Verification {
	return Verification{Reason: reason, Err: err}
}

// DisplayName returns the customer's full name or a neutral placeholder.
func (v Verification) DisplayName() string {
	return CoalesceStr(v.Customer.FullName, "Customer")
}

// LoanRef returns the loan id, or the customer id when no loan id is known.
func (v Verification) LoanRef() string {
	return CoalesceStr(v.Customer.LoanID, v.CustomerID)
}
