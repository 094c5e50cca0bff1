package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillClaimSeq(db); err != nil {
		return fmt.Errorf("backfilling claim seq values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		mode TEXT NOT NULL CHECK(mode IN ('rule','supervisor','llm')),
		intent TEXT NOT NULL,
		user_text TEXT NOT NULL,
		response TEXT NOT NULL,
		customer_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_session ON interactions(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at)`,

	`CREATE TABLE IF NOT EXISTS claims (
		claim_id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL DEFAULT '',
		loan_id TEXT NOT NULL DEFAULT '',
		incident_type TEXT NOT NULL DEFAULT '',
		incident_date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		estimated_damage TEXT NOT NULL DEFAULT '',
		service_center TEXT NOT NULL DEFAULT '',
		claim_amount TEXT NOT NULL DEFAULT '0',
		settlement_date TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`ALTER TABLE claims ADD COLUMN seq INTEGER`,
	`CREATE INDEX IF NOT EXISTS idx_claims_customer ON claims(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_claims_loan ON claims(loan_id)`,
}

// migrateBackfillClaimSeq fills seq from the numeric suffix of claim_id for
// rows written without one. Ids without a numeric suffix keep a NULL seq.
func migrateBackfillClaimSeq(db *sql.DB) error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `SELECT claim_id FROM claims WHERE seq IS NULL`)
	if err != nil {
		return fmt.Errorf("listing claims without seq: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning claim id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating claim ids: %w", err)
	}
	rows.Close()

	for _, id := range ids {
		seq, ok := ClaimSeq(id)
		if !ok {
			continue
		}
		if _, err := db.ExecContext(ctx, `UPDATE claims SET seq = ? WHERE claim_id = ?`, seq, id); err != nil {
			return fmt.Errorf("setting seq for claim %s: %w", id, err)
		}
	}
	return nil
}

// ClaimSeq parses the numeric suffix of a CLM-prefixed claim id.
func ClaimSeq(claimID string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(claimID)), "CLM")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
