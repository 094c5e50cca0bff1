package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexanderramin/autofin/internal/domain"
)

// ClaimStore is the append-only backing store of the claims table.
type ClaimStore interface {
	List(ctx context.Context) ([]domain.ClaimRecord, error)
	Append(ctx context.Context, c domain.ClaimRecord) error
}

// ClaimLedger serializes the read-count-then-append sequence of claim creation.
// Ids are assigned as row count + 1, so every writer must go through WithinLock.
type ClaimLedger struct {
	mu    sync.Mutex
	store ClaimStore
}

// NewClaimLedger wraps a ClaimStore with a single-writer lock.
func NewClaimLedger(store ClaimStore) *ClaimLedger {
	return &ClaimLedger{store: store}
}

// WithinLock runs fn while holding the ledger lock.
func (l *ClaimLedger) WithinLock(ctx context.Context, fn func(ctx context.Context, store ClaimStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, l.store)
}

// List returns a snapshot of all claims.
func (l *ClaimLedger) List(ctx context.Context) ([]domain.ClaimRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.List(ctx)
}

// CSVClaimStore keeps claims in a CSV file and appends one row per new claim.
type CSVClaimStore struct {
	path string
}

// NewCSVClaimStore creates a store over the CSV file at path. The file is
// created on first append when it does not exist.
func NewCSVClaimStore(path string) *CSVClaimStore {
	return &CSVClaimStore{path: path}
}

func (s *CSVClaimStore) List(ctx context.Context) ([]domain.ClaimRecord, error) {
	t, err := LoadTable(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	return Claims(t), nil
}

// Append writes the claim aligned to the file's existing header. Columns the
// file does not carry are dropped.
func (s *CSVClaimStore) Append(ctx context.Context, c domain.ClaimRecord) error {
	t, err := LoadTable(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	header := t.Header
	cols := t.Columns
	writeHeader := len(header) == 0
	if writeHeader {
		header = claimColumns
		cols = claimColumns
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("%w: creating claims directory: %w", domain.ErrPersistence, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: opening claims file: %w", domain.ErrPersistence, err)
	}
	defer f.Close()

	if !writeHeader {
		if err := ensureTrailingNewline(f); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: writing header: %w", domain.ErrPersistence, err)
		}
	}

	row := claimToRow(c)
	rec := make([]string, len(cols))
	for i, col := range cols {
		rec[i] = row.Get(col)
	}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("%w: writing claim %s: %w", domain.ErrPersistence, c.ClaimID, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flushing claim %s: %w", domain.ErrPersistence, c.ClaimID, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing claims file: %w", domain.ErrPersistence, err)
	}
	return nil
}

// ensureTrailingNewline terminates the last line when a hand-edited file
// does not end in a newline.
func ensureTrailingNewline(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat claims file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading claims file tail: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		return fmt.Errorf("terminating last claims row: %w", err)
	}
	return nil
}
