package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/db"
	"github.com/alexanderramin/autofin/internal/domain"
)

// SQLiteClaimRepo keeps the claims table in SQLite. It satisfies
// records.ClaimStore so the claim ledger can run on it instead of CSV.
type SQLiteClaimRepo struct {
	db db.DBTX
}

// NewSQLiteClaimRepo creates a new SQLiteClaimRepo.
func NewSQLiteClaimRepo(conn db.DBTX) *SQLiteClaimRepo {
	return &SQLiteClaimRepo{db: conn}
}

const claimColumns = `claim_id, customer_id, loan_id, incident_type, incident_date, status,
	estimated_damage, service_center, claim_amount, settlement_date, remarks`

// List returns claims in insertion order.
func (r *SQLiteClaimRepo) List(ctx context.Context) ([]domain.ClaimRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+claimColumns+` FROM claims ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing claims: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	var out []domain.ClaimRecord
	for rows.Next() {
		var c domain.ClaimRecord
		if err := rows.Scan(
			&c.ClaimID, &c.CustomerID, &c.LoanID, &c.IncidentType, &c.IncidentDate, &c.Status,
			&c.EstimatedDamage, &c.ServiceCenter, &c.ClaimAmount, &c.SettlementDate, &c.Remarks,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning claim: %w", domain.ErrDataUnavailable, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating claims: %w", domain.ErrDataUnavailable, err)
	}
	return out, nil
}

// Append inserts one claim. A duplicate claim id is a persistence failure.
func (r *SQLiteClaimRepo) Append(ctx context.Context, c domain.ClaimRecord) error {
	var seq any
	if n, ok := db.ClaimSeq(c.ClaimID); ok {
		seq = n
	}
	query := `INSERT INTO claims (` + claimColumns + `, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ClaimID, c.CustomerID, c.LoanID, c.IncidentType, c.IncidentDate, c.Status,
		c.EstimatedDamage, c.ServiceCenter, domain.CoalesceStr(c.ClaimAmount, "0"), c.SettlementDate, c.Remarks,
		seq, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: inserting claim %s: %w", domain.ErrPersistence, c.ClaimID, err)
	}
	return nil
}

// Count returns the number of stored claims.
func (r *SQLiteClaimRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return n, nil
}

// SkippedClaim is a seed record ImportClaims left out. Index is its
// zero-based position in the input.
type SkippedClaim struct {
	Index   int
	ClaimID string
	Reason  string
}

// ClaimImport summarises one ImportClaims run.
type ClaimImport struct {
	Imported int
	Skipped  []SkippedClaim
}

// ImportClaims seeds an empty claims table in one transaction. It is a no-op
// when the table already holds rows. Records with a blank claim id, or an id
// already seen earlier in the input, are skipped and reported.
func ImportClaims(ctx context.Context, uow db.UnitOfWork, claims []domain.ClaimRecord) (ClaimImport, error) {
	var res ClaimImport
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteClaimRepo(tx)
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		seen := make(map[string]bool, len(claims))
		for i, c := range claims {
			c.ClaimID = strings.TrimSpace(c.ClaimID)
			switch {
			case c.ClaimID == "":
				res.Skipped = append(res.Skipped, SkippedClaim{Index: i, Reason: "blank claim_id"})
				continue
			case seen[c.ClaimID]:
				res.Skipped = append(res.Skipped, SkippedClaim{Index: i, ClaimID: c.ClaimID, Reason: "duplicate claim_id"})
				continue
			}
			seen[c.ClaimID] = true
			if err := repo.Append(ctx, c); err != nil {
				return err
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return ClaimImport{}, fmt.Errorf("importing claims: %w", err)
	}
	return res, nil
}

var _ ClaimRepo = (*SQLiteClaimRepo)(nil)
