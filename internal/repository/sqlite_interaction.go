package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/autofin/internal/db"
	"github.com/alexanderramin/autofin/internal/domain"
)

// SQLiteInteractionRepo implements InteractionRepo using a SQLite database.
type SQLiteInteractionRepo struct {
	db db.DBTX
}

// NewSQLiteInteractionRepo creates a new SQLiteInteractionRepo.
func NewSQLiteInteractionRepo(conn db.DBTX) *SQLiteInteractionRepo {
	return &SQLiteInteractionRepo{db: conn}
}

const interactionColumns = `id, session_id, mode, intent, user_text, response, customer_id, created_at`

func (r *SQLiteInteractionRepo) Create(ctx context.Context, in *domain.Interaction) error {
	query := `INSERT INTO interactions (` + interactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		in.ID,
		in.SessionID,
		string(in.Mode),
		string(in.Intent),
		in.UserText,
		in.Response,
		in.CustomerID,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

func (r *SQLiteInteractionRepo) GetByID(ctx context.Context, id string) (*domain.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interaction: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning interaction: %w", err)
	}
	return in, nil
}

// ListBySession returns a session's turns oldest first.
func (r *SQLiteInteractionRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions
		WHERE session_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing interactions by session: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// ListRecent returns the latest turns across sessions, newest first.
func (r *SQLiteInteractionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Interaction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + interactionColumns + ` FROM interactions
		ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(s rowScanner) (*domain.Interaction, error) {
	var in domain.Interaction
	var mode, intent, createdAt string
	if err := s.Scan(&in.ID, &in.SessionID, &mode, &intent, &in.UserText, &in.Response, &in.CustomerID, &createdAt); err != nil {
		return nil, err
	}
	in.Mode = domain.AgentMode(mode)
	in.Intent = domain.Intent(intent)
	in.CreatedAt = parseTime(createdAt)
	return &in, nil
}

func scanInteractions(rows *sql.Rows) ([]*domain.Interaction, error) {
	var out []*domain.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning interaction row: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction rows: %w", err)
	}
	return out, nil
}
