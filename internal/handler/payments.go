package handler

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
)

// PaymentSource is the read side of the payment table.
type PaymentSource interface {
	Payments() []domain.PaymentRecord
}

// Payments answers EMI questions. It never mutates data.
type Payments struct {
	src      PaymentSource
	currency string
}

func NewPayments(src PaymentSource, currency string) *Payments {
	return &Payments{src: src, currency: domain.CoalesceStr(currency, DefaultCurrency)}
}

// Handle formats the first matching payment row for v. Rows are joined by
// loan id first, then by customer id.
func (h *Payments) Handle(v domain.Verification) string {
	rows := h.src.Payments()
	if len(rows) == 0 {
		return "Payment Agent: No payment data available."
	}
	if !v.OK {
		return "Payment Agent: Please verify your loan ID first."
	}

	ref := v.LoanRef()
	p, ok := FindPayment(rows, v.Customer.LoanID, v.CustomerID)
	if !ok {
		return fmt.Sprintf("Payment Agent: No EMI data found for Loan %s.", ref)
	}

	status := orNA(p.Status)
	if p.IsOverdue() {
		status = fmt.Sprintf("%s (overdue by %d days)", status, p.OverdueDaysInt())
	}

	return sentence(
		fmt.Sprintf("Payment Agent: For Loan %s, next EMI is %s%s due on %s.",
			domain.CoalesceStr(p.LoanID, ref), h.currency, orNA(p.EMIAmount), orNA(p.DueDate)),
		fmt.Sprintf("Outstanding balance: %s%s.", h.currency, orNA(p.OutstandingBalance)),
		fmt.Sprintf("Payment status: %s.", status),
		p.Remarks,
	)
}

// FindPayment returns the first row whose loan id matches loanID, falling
// back to the first row whose customer id matches customerID.
func FindPayment(rows []domain.PaymentRecord, loanID, customerID string) (domain.PaymentRecord, bool) {
	if loanID = strings.TrimSpace(loanID); loanID != "" {
		for _, p := range rows {
			if strings.EqualFold(strings.TrimSpace(p.LoanID), loanID) {
				return p, true
			}
		}
	}
	if customerID = strings.TrimSpace(customerID); customerID != "" {
		for _, p := range rows {
			if strings.EqualFold(strings.TrimSpace(p.CustomerID), customerID) {
				return p, true
			}
		}
	}
	return domain.PaymentRecord{}, false
}
