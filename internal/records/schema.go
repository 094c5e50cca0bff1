package records

import "strings"

// Canonical column names. Every downstream lookup uses these names only.
const (
	ColCustomerID         = "customer_id"
	ColLoanID             = "loan_id"
	ColFullName           = "full_name"
	ColFirstName          = "first_name"
	ColLastName           = "last_name"
	ColPhone              = "phone"
	ColVehicle            = "vehicle"
	ColCity               = "city"
	ColEMIAmount          = "emi_amount"
	ColDueDate            = "due_date"
	ColLastPaymentDate    = "last_payment_date"
	ColOutstandingBalance = "outstanding_balance"
	ColPaymentStatus      = "payment_status"
	ColOverdueDays        = "overdue_days"
	ColRemarks            = "remarks"
	ColClaimID            = "claim_id"
	ColIncidentType       = "incident_type"
	ColIncidentDate       = "incident_date"
	ColStatus             = "status"
	ColEstimatedDamage    = "estimated_damage"
	ColServiceCenter      = "service_center"
	ColClaimAmount        = "claim_amount"
	ColSettlementDate     = "settlement_date"
)

// columnAliases maps lower-cased source headers to canonical names. It is
// consulted once per header at load time.
var columnAliases = map[string]string{
	"customer_id": ColCustomerID,
	"customerid":  ColCustomerID,
	"cust_id":     ColCustomerID,

	"loan_id":     ColLoanID,
	"loanid":      ColLoanID,
	"loan_number": ColLoanID,
	"loan_no":     ColLoanID,

	"full_name":     ColFullName,
	"customername":  ColFullName,
	"customer_name": ColFullName,
	"name":          ColFullName,

	"first_name": ColFirstName,
	"firstname":  ColFirstName,
	"last_name":  ColLastName,
	"lastname":   ColLastName,

	"phone":        ColPhone,
	"phone_number": ColPhone,
	"mobile":       ColPhone,

	"vehicle":       ColVehicle,
	"vehicle_model": ColVehicle,

	"city":            ColCity,
	"registered_city": ColCity,

	"emi_amount": ColEMIAmount,
	"emi":        ColEMIAmount,

	"due_date":      ColDueDate,
	"next_due_date": ColDueDate,

	"last_payment_date": ColLastPaymentDate,

	"outstanding_balance": ColOutstandingBalance,
	"balance":             ColOutstandingBalance,

	"payment_status": ColPaymentStatus,
	"overdue_days":   ColOverdueDays,
	"remarks":        ColRemarks,

	"claim_id": ColClaimID,
	"claimid":  ColClaimID,

	"status":       ColStatus,
	"claim_status": ColStatus,

	"incident_type":    ColIncidentType,
	"incident_date":    ColIncidentDate,
	"estimated_damage": ColEstimatedDamage,
	"service_center":   ColServiceCenter,
	"claim_amount":     ColClaimAmount,
	"settlement_date":  ColSettlementDate,
}

// CanonicalColumn maps a source header to its canonical name. Unrecognised
// headers pass through trimmed but otherwise unchanged.
func CanonicalColumn(header string) string {
	h := strings.TrimSpace(header)
	if canon, ok := columnAliases[strings.ToLower(h)]; ok {
		return canon
	}
	return h
}

// claimColumns is the header written when the claims file does not exist yet.
var claimColumns = []string{
	ColClaimID, ColCustomerID, ColLoanID, ColIncidentType, ColIncidentDate,
	ColStatus, ColEstimatedDamage, ColServiceCenter, ColClaimAmount,
	ColSettlementDate, ColRemarks,
}
