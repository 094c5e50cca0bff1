package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/autofin/internal/db"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimRepo_AppendAndList(t *testing.T) {
	repo := NewSQLiteClaimRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, domain.ClaimRecord{ClaimID: "CLM002", CustomerID: "C1", Status: "New"}))
	require.NoError(t, repo.Append(ctx, domain.ClaimRecord{ClaimID: "CLM001", CustomerID: "C2", Status: "Settled", ClaimAmount: "900"}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CLM002", got[0].ClaimID, "insertion order")
	assert.Equal(t, "0", got[0].ClaimAmount)
	assert.Equal(t, "900", got[1].ClaimAmount)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClaimRepo_DuplicateIDIsPersistenceError(t *testing.T) {
	repo := NewSQLiteClaimRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, domain.ClaimRecord{ClaimID: "CLM001"}))
	err := repo.Append(ctx, domain.ClaimRecord{ClaimID: "CLM001"})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestImportClaims(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	seed := []domain.ClaimRecord{
		{ClaimID: "CLM001", CustomerID: "C1", Status: "Settled"},
		{ClaimID: "CLM002", CustomerID: "C2", Status: "New"},
	}

	res, err := ImportClaims(ctx, testutil.NewTestUoW(database), seed)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Skipped)

	// A second import leaves the populated table alone.
	res, err = ImportClaims(ctx, testutil.NewTestUoW(database), seed)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)

	var seq int
	require.NoError(t, database.QueryRow(`SELECT seq FROM claims WHERE claim_id = 'CLM002'`).Scan(&seq))
	assert.Equal(t, 2, seq)
}

func TestImportClaims_SkipsBlankAndDuplicateIDs(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	seed := []domain.ClaimRecord{
		{ClaimID: "CLM001", CustomerID: "C1", Status: "Settled"},
		{ClaimID: "  ", CustomerID: "C2"},
		{ClaimID: "CLM001", CustomerID: "C3"},
		{ClaimID: "CLM002", CustomerID: "C4", Status: "New"},
	}

	res, err := ImportClaims(ctx, testutil.NewTestUoW(database), seed)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []SkippedClaim{
		{Index: 1, Reason: "blank claim_id"},
		{Index: 2, ClaimID: "CLM001", Reason: "duplicate claim_id"},
	}, res.Skipped)

	all, err := NewSQLiteClaimRepo(database).List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "C1", all[0].CustomerID)
	assert.Equal(t, "C4", all[1].CustomerID)
}

func TestImportClaims_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	errInjected := errors.New("injected")

	seed := []domain.ClaimRecord{{ClaimID: "CLM001"}, {ClaimID: "CLM002"}, {ClaimID: "CLM003"}}
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errInjected}

	_, err := ImportClaims(ctx, uow, seed)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	n, err := NewSQLiteClaimRepo(database).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "first insert rolled back")
}

// TestClaimRepo_LedgerConcurrentCreation drives the ledger from many
// goroutines against a file-backed database and checks ids stay unique.
func TestClaimRepo_LedgerConcurrentCreation(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "claims.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ledger := records.NewClaimLedger(NewSQLiteClaimRepo(database))
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- ledger.WithinLock(ctx, func(ctx context.Context, store records.ClaimStore) error {
				all, err := store.List(ctx)
				if err != nil {
					return err
				}
				return store.Append(ctx, domain.ClaimRecord{
					ClaimID:    domain.FormatClaimID(len(all) + 1),
					CustomerID: fmt.Sprintf("C%d", i),
				})
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, writers)
	seen := map[string]bool{}
	for _, c := range all {
		assert.False(t, seen[c.ClaimID], "duplicate %s", c.ClaimID)
		seen[c.ClaimID] = true
	}
	assert.True(t, seen["CLM008"])
}
