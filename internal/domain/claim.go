package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ClaimIDPrefix prefixes every generated claim id.
const ClaimIDPrefix = "CLM"

// ClaimRecord is one insurance claim row.
type ClaimRecord struct {
	ClaimID         string
	CustomerID      string
	LoanID          string
	IncidentType    string
	IncidentDate    string
	Status          string
	EstimatedDamage string
	ServiceCenter   string
	ClaimAmount     string
	SettlementDate  string
	Remarks         string
}

// IsOpen reports whether the claim is still New or In Progress. An open claim
// suppresses creation of another claim for the same customer.
func (c ClaimRecord) IsOpen() bool {
	s := strings.TrimSpace(c.Status)
	return strings.EqualFold(s, ClaimStatusNew) || strings.EqualFold(s, ClaimStatusInProgress)
}

// Seq returns the numeric suffix of the claim id, or -1 when it has none.
func (c ClaimRecord) Seq() int {
	rest, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(c.ClaimID)), ClaimIDPrefix)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	return n
}

// FormatClaimID renders a sequence number as CLM001, CLM002, ...
func FormatClaimID(seq int) string {
	return fmt.Sprintf("%s%03d", ClaimIDPrefix, seq)
}

// ClaimRequest carries the caller-supplied fields of a new claim.
type ClaimRequest struct {
	IncidentType string
	Remarks      string
}

const (
	DefaultIncidentType = "Accident"
	DefaultClaimRemarks = "Initial FNOL logged"
)

// WithDefaults fills empty fields with the FNOL defaults.
func (r ClaimRequest) WithDefaults() ClaimRequest {
	if strings.TrimSpace(r.IncidentType) == "" {
		r.IncidentType = DefaultIncidentType
	}
	if strings.TrimSpace(r.Remarks) == "" {
		r.Remarks = DefaultClaimRemarks
	}
	return r
}
