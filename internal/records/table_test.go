package records_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable_MissingFileIsEmpty(t *testing.T) {
	tbl, err := records.LoadTable(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
	assert.False(t, tbl.HasColumn(records.ColLoanID))
}

func TestReadTable_NormalizesAliases(t *testing.T) {
	src := "\ufeffCustomerID, CustomerName ,LoanID,Mobile,Vehicle_Model,Registered_City,loyalty_tier\n" +
		"C001,John Doe,LN001,98765 43210,Swift,Pune,gold\n"

	tbl, err := records.ReadTable(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)

	assert.Equal(t, []string{
		records.ColCustomerID, records.ColFullName, records.ColLoanID, records.ColPhone,
		records.ColVehicle, records.ColCity, "loyalty_tier",
	}, tbl.Columns)

	row := tbl.Rows[0]
	assert.Equal(t, "C001", row.Get(records.ColCustomerID))
	assert.Equal(t, "John Doe", row.Get(records.ColFullName))
	assert.Equal(t, "98765 43210", row.Get(records.ColPhone))
	assert.Equal(t, "gold", row.Get("loyalty_tier"))
}

func TestReadTable_ShortRowsAndBlankLines(t *testing.T) {
	src := "loan_id,emi_amount,remarks\nLN001,12500\n,,\nLN002,9000,ok\n"

	tbl, err := records.ReadTable(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "", tbl.Rows[0].Get(records.ColRemarks))
	assert.Equal(t, "ok", tbl.Rows[1].Get(records.ColRemarks))
	assert.Equal(t, "", tbl.Rows[1].Get("not_a_column"))
}

func TestReadTable_DerivesFullName(t *testing.T) {
	src := "first_name,last_name,loan_number\nJohn,Doe,LN001\nPriya,,LN002\n"

	tbl, err := records.ReadTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn(records.ColFullName))
	assert.NotContains(t, tbl.Columns, records.ColFullName)
	assert.Equal(t, "John Doe", tbl.Rows[0].Get(records.ColFullName))
	assert.Equal(t, "Priya", tbl.Rows[1].Get(records.ColFullName))
}

func TestReadTable_DuplicateAliasKeepsFirst(t *testing.T) {
	src := "loan_id,loan_number\nLN001,LN999\n"

	tbl, err := records.ReadTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{records.ColLoanID, "loan_number"}, tbl.Columns)
	assert.Equal(t, "LN001", tbl.Rows[0].Get(records.ColLoanID))
}

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LOAN_NUMBER", records.ColLoanID},
		{" claim_status ", records.ColStatus},
		{"Next_Due_Date", records.ColDueDate},
		{"Balance", records.ColOutstandingBalance},
		{"Settlement_Date", records.ColSettlementDate},
		{"Unknown Column", "Unknown Column"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, records.CanonicalColumn(tt.in))
		})
	}
}

func TestOpen_TypedViews(t *testing.T) {
	store, _ := testutil.NewTestStore(t)

	customers := store.Customers()
	require.Len(t, customers, 3)
	assert.Equal(t, "LN001", customers[0].LoanID)
	assert.Equal(t, "John Doe", customers[0].FullName)
	assert.True(t, store.HasCustomerColumn(records.ColPhone))

	payments := store.Payments()
	require.Len(t, payments, 3)
	assert.Equal(t, "12500", payments[0].EMIAmount)
	assert.Equal(t, "2025-06-05", payments[0].DueDate)
	assert.Equal(t, "Current", payments[0].Status)
}

func TestOpen_MissingFilesYieldEmptyStore(t *testing.T) {
	paths := records.DefaultPaths(t.TempDir())
	store, err := records.Open(paths, records.NewCSVClaimStore(paths.Claims))
	require.NoError(t, err)
	assert.Empty(t, store.Customers())
	assert.Empty(t, store.Payments())
	assert.False(t, store.HasCustomerColumn(records.ColLoanID))
}
