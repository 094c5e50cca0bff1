package handler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/handler"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func TestClaims_CreatesThenReturnsOpenClaim(t *testing.T) {
	ctx := context.Background()
	store, paths := testutil.NewTestStore(t)
	h := handler.NewClaims(store.Claims(), fixedClock, "")
	v := verify(t, store, identity.Query{Loan: "LN001"})

	first, err := h.Handle(ctx, v, domain.ClaimRequest{IncidentType: "Theft"})
	require.NoError(t, err)
	assert.Equal(t, "Claim Agent: New claim CLM002 created for Theft. You can track it later for updates.", first)
	linesAfterFirst := testutil.CountLines(t, paths.Claims)

	second, err := h.Handle(ctx, v, domain.ClaimRequest{IncidentType: "Accident"})
	require.NoError(t, err)
	assert.Contains(t, second, "Claim ID CLM002")
	assert.Contains(t, second, "is 'New'")
	assert.Contains(t, second, "Type: Theft.")
	assert.Contains(t, second, "Settlement date: TBD.")
	assert.Equal(t, linesAfterFirst, testutil.CountLines(t, paths.Claims), "no row appended for an open claim")

	claims, err := store.Claims().List(ctx)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	created := claims[1]
	assert.Equal(t, "C001", created.CustomerID)
	assert.Equal(t, "2025-06-01", created.IncidentDate)
	assert.Equal(t, "New", created.Status)
	assert.Equal(t, "0", created.ClaimAmount)
	assert.Equal(t, domain.DefaultClaimRemarks, created.Remarks)
}

func TestClaims_SequentialIDsFromEmpty(t *testing.T) {
	ctx := context.Background()
	const n = 5

	customers := make([][]string, n)
	for i := range customers {
		customers[i] = []string{
			fmt.Sprintf("C1%02d", i), "Cust", fmt.Sprintf("Number%d", i),
			fmt.Sprintf("LN1%02d", i), fmt.Sprintf("90000000%02d", i), "", "",
		}
	}
	store, _ := testutil.NewTestStore(t,
		testutil.WithCustomers(testutil.CustomerHeaderSplit, customers...),
		testutil.WithoutClaims(),
	)
	h := handler.NewClaims(store.Claims(), fixedClock, "")

	for i := 0; i < n; i++ {
		v := verify(t, store, identity.Query{Loan: fmt.Sprintf("LN1%02d", i)})
		_, err := h.Handle(ctx, v, domain.ClaimRequest{})
		require.NoError(t, err)
	}

	claims, err := store.Claims().List(ctx)
	require.NoError(t, err)
	require.Len(t, claims, n)
	for i, c := range claims {
		assert.Equal(t, fmt.Sprintf("CLM%03d", i+1), c.ClaimID)
		assert.Equal(t, domain.DefaultIncidentType, c.IncidentType)
	}
}

func TestClaims_SettledClaimDoesNotSuppressCreation(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t)
	h := handler.NewClaims(store.Claims(), fixedClock, "")

	// C002 owns the settled CLM001.
	got, err := h.Handle(ctx, verify(t, store, identity.Query{Loan: "LN002"}), domain.ClaimRequest{})
	require.NoError(t, err)
	assert.Contains(t, got, "New claim CLM002 created for Accident")
}

func TestClaims_LatestByNumericSuffix(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t, testutil.WithClaims(
		[]string{"CLM010", "C001", "Fire", "2025-01-01", "In Progress", "", "", "5000", "", "surveyor assigned"},
		[]string{"CLM009", "C001", "Theft", "2024-12-01", "Settled", "", "", "9000", "2025-01-01", ""},
	))
	h := handler.NewClaims(store.Claims(), fixedClock, "")

	got, err := h.Handle(ctx, verify(t, store, identity.Query{Loan: "LN001"}), domain.ClaimRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Claim Agent: Claim ID CLM010 for Loan LN001 is 'In Progress'. Type: Fire. "+
		"Claim amount ₹5000. Settlement date: TBD. surveyor assigned", got)
}

func TestClaims_NextIDSkipsPastHigherSequence(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t, testutil.WithClaims(
		[]string{"CLM007", "C009", "Fire", "2025-01-01", "Settled", "", "", "", "", ""},
	))
	h := handler.NewClaims(store.Claims(), fixedClock, "")

	got, err := h.Handle(ctx, verify(t, store, identity.Query{Loan: "LN001"}), domain.ClaimRequest{})
	require.NoError(t, err)
	assert.Contains(t, got, "New claim CLM008")
}

func TestClaims_UnverifiedDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	store, paths := testutil.NewTestStore(t)
	h := handler.NewClaims(store.Claims(), fixedClock, "")
	before := testutil.CountLines(t, paths.Claims)

	got, err := h.Handle(ctx, domain.Verification{}, domain.ClaimRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Claim Agent: Please verify your loan ID first.", got)
	assert.Equal(t, before, testutil.CountLines(t, paths.Claims))
}

type failingClaimStore struct {
	records.ClaimStore
	err error
}

func (f failingClaimStore) Append(context.Context, domain.ClaimRecord) error {
	return f.err
}

func TestClaims_AppendFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store, paths := testutil.NewTestStore(t)
	v := verify(t, store, identity.Query{Loan: "LN001"})

	diskFull := errors.New("disk full")
	ledger := records.NewClaimLedger(failingClaimStore{ClaimStore: records.NewCSVClaimStore(paths.Claims), err: diskFull})
	h := handler.NewClaims(ledger, fixedClock, "")

	got, err := h.Handle(ctx, v, domain.ClaimRequest{})
	require.Error(t, err)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, diskFull)
}

func TestLatestClaim_MatchesByLoanWhenCustomerMissing(t *testing.T) {
	all := []domain.ClaimRecord{
		{ClaimID: "CLM001", CustomerID: "LN005", Status: "Settled"},
		{ClaimID: "CLM002", LoanID: "ln005", Status: "New"},
		{ClaimID: "CLM003", CustomerID: "C777", Status: "New"},
	}
	got, ok := handler.LatestClaim(all, "C005", "LN005")
	require.True(t, ok)
	assert.Equal(t, "CLM002", got.ClaimID)

	_, ok = handler.LatestClaim(all, "", "")
	assert.False(t, ok)
}
