package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/records"
)

// Claims reports the latest open claim or files a new one.
type Claims struct {
	ledger   *records.ClaimLedger
	now      Clock
	currency string
}

func NewClaims(ledger *records.ClaimLedger, now Clock, currency string) *Claims {
	if now == nil {
		now = time.Now
	}
	return &Claims{ledger: ledger, now: now, currency: domain.CoalesceStr(currency, DefaultCurrency)}
}

// Handle runs under the ledger lock: an open claim of the customer is
// returned as is, otherwise a new claim is appended before the confirmation
// is returned. A failed append is returned as a domain.ErrPersistence error.
func (h *Claims) Handle(ctx context.Context, v domain.Verification, req domain.ClaimRequest) (string, error) {
	if !v.OK {
		return "Claim Agent: Please verify your loan ID first.", nil
	}
	req = req.WithDefaults()

	var reply string
	err := h.ledger.WithinLock(ctx, func(ctx context.Context, store records.ClaimStore) error {
		all, err := store.List(ctx)
		if err != nil {
			reply = "Claim Agent: No claim data available."
			return nil
		}

		if latest, ok := LatestClaim(all, v.CustomerID, v.Customer.LoanID); ok && latest.IsOpen() {
			reply = h.describe(latest, v)
			return nil
		}

		claim := domain.ClaimRecord{
			ClaimID:      domain.FormatClaimID(nextSeq(all)),
			CustomerID:   v.CustomerID,
			LoanID:       v.Customer.LoanID,
			IncidentType: req.IncidentType,
			IncidentDate: h.now().Format("2006-01-02"),
			Status:       domain.ClaimStatusNew,
			ClaimAmount:  "0",
			Remarks:      req.Remarks,
		}
		if err := store.Append(ctx, claim); err != nil {
			if errors.Is(err, domain.ErrPersistence) {
				return fmt.Errorf("recording claim %s: %w", claim.ClaimID, err)
			}
			return fmt.Errorf("recording claim %s: %w: %w", claim.ClaimID, domain.ErrPersistence, err)
		}
		reply = fmt.Sprintf("Claim Agent: New claim %s created for %s. You can track it later for updates.",
			claim.ClaimID, claim.IncidentType)
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (h *Claims) describe(c domain.ClaimRecord, v domain.Verification) string {
	return sentence(
		fmt.Sprintf("Claim Agent: Claim ID %s for Loan %s is '%s'.",
			c.ClaimID, domain.CoalesceStr(c.LoanID, v.LoanRef()), orNA(c.Status)),
		fmt.Sprintf("Type: %s.", orNA(c.IncidentType)),
		fmt.Sprintf("Claim amount %s%s.", h.currency, domain.CoalesceStr(c.ClaimAmount, "0")),
		fmt.Sprintf("Settlement date: %s.", domain.CoalesceStr(c.SettlementDate, "TBD")),
		c.Remarks,
	)
}

// LatestClaim returns the highest-numbered claim of the customer. Claims are
// matched by customer id, then by loan id in either the loan or customer
// column.
func LatestClaim(all []domain.ClaimRecord, customerID, loanID string) (domain.ClaimRecord, bool) {
	matches := filterClaims(all, func(c domain.ClaimRecord) bool {
		return equalNonEmpty(c.CustomerID, customerID)
	})
	if len(matches) == 0 {
		matches = filterClaims(all, func(c domain.ClaimRecord) bool {
			return equalNonEmpty(c.LoanID, loanID) || equalNonEmpty(c.CustomerID, loanID)
		})
	}
	if len(matches) == 0 {
		return domain.ClaimRecord{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].Seq(), matches[j].Seq()
		if si != sj {
			return si < sj
		}
		return matches[i].ClaimID < matches[j].ClaimID
	})
	return matches[len(matches)-1], true
}

// nextSeq is the row count plus one, bumped past any higher existing
// sequence so a hand-edited file cannot produce a duplicate id.
func nextSeq(all []domain.ClaimRecord) int {
	seq := len(all)
	for _, c := range all {
		seq = max(seq, c.Seq())
	}
	return seq + 1
}

func filterClaims(all []domain.ClaimRecord, keep func(domain.ClaimRecord) bool) []domain.ClaimRecord {
	var out []domain.ClaimRecord
	for _, c := range all {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func equalNonEmpty(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
