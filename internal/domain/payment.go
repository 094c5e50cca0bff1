package domain

import (
	"strconv"
	"strings"
)

// PaymentRecord is one EMI/installment status row.
type PaymentRecord struct {
	LoanID             string
	CustomerID         string
	EMIAmount          string
	DueDate            string
	LastPaymentDate    string
	OutstandingBalance string
	Status             string
	OverdueDays        string
	Remarks            string
}

// IsOverdue compares the free-text status case-insensitively.
func (p PaymentRecord) IsOverdue() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), string(PaymentOverdue))
}

// OverdueDaysInt parses the overdue day count. It returns 0 when the status is
// not overdue or the value is not an integer.
func (p PaymentRecord) OverdueDaysInt() int {
	if !p.IsOverdue() {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.OverdueDays))
	if err != nil {
		return 0
	}
	return n
}
