package records

import (
	"github.com/alexanderramin/autofin/internal/domain"
)

// customerFields marks columns that map onto typed Customer fields.
var customerFields = map[string]bool{
	ColCustomerID: true, ColLoanID: true, ColFullName: true, ColFirstName: true,
	ColLastName: true, ColPhone: true, ColVehicle: true, ColCity: true,
}

// Customers converts a normalized table into customer records.
func Customers(t *Table) []domain.Customer {
	if t.Empty() {
		return nil
	}
	out := make([]domain.Customer, 0, len(t.Rows))
	for _, row := range t.Rows {
		c := domain.Customer{
			CustomerID: row.Get(ColCustomerID),
			LoanID:     row.Get(ColLoanID),
			FirstName:  row.Get(ColFirstName),
			LastName:   row.Get(ColLastName),
			FullName:   row.Get(ColFullName),
			Phone:      row.Get(ColPhone),
			Vehicle:    row.Get(ColVehicle),
			City:       row.Get(ColCity),
		}
		for col, v := range row {
			if customerFields[col] {
				continue
			}
			if c.Extra == nil {
				c.Extra = make(map[string]string)
			}
			c.Extra[col] = v
		}
		out = append(out, c)
	}
	return out
}

// Payments converts a normalized table into payment records, in source order.
func Payments(t *Table) []domain.PaymentRecord {
	if t.Empty() {
		return nil
	}
	out := make([]domain.PaymentRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, domain.PaymentRecord{
			LoanID:             row.Get(ColLoanID),
			CustomerID:         row.Get(ColCustomerID),
			EMIAmount:          row.Get(ColEMIAmount),
			DueDate:            row.Get(ColDueDate),
			LastPaymentDate:    row.Get(ColLastPaymentDate),
			OutstandingBalance: row.Get(ColOutstandingBalance),
			Status:             row.Get(ColPaymentStatus),
			OverdueDays:        row.Get(ColOverdueDays),
			Remarks:            row.Get(ColRemarks),
		})
	}
	return out
}

// Claims converts a normalized table into claim records, in source order.
func Claims(t *Table) []domain.ClaimRecord {
	if t.Empty() {
		return nil
	}
	out := make([]domain.ClaimRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, claimFromRow(row))
	}
	return out
}

func claimFromRow(row Row) domain.ClaimRecord {
	return domain.ClaimRecord{
		ClaimID:         row.Get(ColClaimID),
		CustomerID:      row.Get(ColCustomerID),
		LoanID:          row.Get(ColLoanID),
		IncidentType:    row.Get(ColIncidentType),
		IncidentDate:    row.Get(ColIncidentDate),
		Status:          row.Get(ColStatus),
		EstimatedDamage: row.Get(ColEstimatedDamage),
		ServiceCenter:   row.Get(ColServiceCenter),
		ClaimAmount:     row.Get(ColClaimAmount),
		SettlementDate:  row.Get(ColSettlementDate),
		Remarks:         row.Get(ColRemarks),
	}
}

func claimToRow(c domain.ClaimRecord) Row {
	return Row{
		ColClaimID:         c.ClaimID,
		ColCustomerID:      c.CustomerID,
		ColLoanID:          c.LoanID,
		ColIncidentType:    c.IncidentType,
		ColIncidentDate:    c.IncidentDate,
		ColStatus:          c.Status,
		ColEstimatedDamage: c.EstimatedDamage,
		ColServiceCenter:   c.ServiceCenter,
		ColClaimAmount:     c.ClaimAmount,
		ColSettlementDate:  c.SettlementDate,
		ColRemarks:         c.Remarks,
	}
}
