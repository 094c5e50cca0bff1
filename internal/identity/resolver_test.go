package identity_test

import (
	"strings"
	"testing"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, opts ...testutil.DataOption) *identity.Resolver {
	t.Helper()
	store, _ := testutil.NewTestStore(t, opts...)
	return identity.NewResolver(store)
}

func TestResolve_LoanExactCaseInsensitive(t *testing.T) {
	r := newResolver(t)

	for _, q := range []string{"LN001", "ln001", "  Ln001 ", "\tLN001\n"} {
		v := r.Resolve(identity.Query{Loan: q})
		require.True(t, v.OK, "query %q", q)
		assert.Equal(t, "C001", v.CustomerID)
		assert.Equal(t, "LN001", v.Customer.LoanID)
	}

	v := r.Resolve(identity.Query{Loan: "LN00"})
	assert.False(t, v.OK)
	assert.Equal(t, identity.ReasonNotFound, v.Reason)
	assert.ErrorIs(t, v.Err, domain.ErrIdentityNotFound)
}

func TestResolve_EveryLoanResolvesToItsRow(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	r := identity.NewResolver(store)

	for _, c := range store.Customers() {
		v := r.Resolve(identity.Query{Loan: " " + strings.ToLower(c.LoanID) + " "})
		require.True(t, v.OK)
		assert.Equal(t, c, v.Customer)
	}
}

func TestResolve_PhoneFormattingInvariant(t *testing.T) {
	r := newResolver(t)

	// Stored as "987-654-3210".
	for _, q := range []string{"9876543210", "987 654 3210", "(987) 654-3210", "987.654.3210"} {
		v := r.Resolve(identity.Query{Phone: q})
		require.True(t, v.OK, "query %q", q)
		assert.Equal(t, "C001", v.CustomerID)
	}

	// Stored as "+91 98765 43211" with the country code.
	v := r.Resolve(identity.Query{Phone: "+91-98765-43211"})
	require.True(t, v.OK)
	assert.Equal(t, "C002", v.CustomerID)

	v = r.Resolve(identity.Query{Phone: "no digits"})
	assert.False(t, v.OK)
	assert.Equal(t, identity.ReasonNotFound, v.Reason)
}

func TestResolve_NameSubstring(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name   string
		query  string
		wantOK bool
		wantID string
	}{
		{"first name", "john", true, "C001"},
		{"full name", "John Doe", true, "C001"},
		{"partial last name", "harm", true, "C002"},
		{"first match wins", "Joh", true, "C001"},
		{"nonexistent full name", "Jane Roe", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := r.Resolve(identity.Query{Name: tt.query})
			assert.Equal(t, tt.wantOK, v.OK)
			assert.Equal(t, tt.wantID, v.CustomerID)
			if !tt.wantOK {
				assert.ErrorIs(t, v.Err, domain.ErrIdentityNotFound)
			}
		})
	}
}

func TestResolve_PriorityLoanOverPhoneOverName(t *testing.T) {
	r := newResolver(t)

	v := r.Resolve(identity.Query{Loan: "LN002", Phone: "9876543210", Name: "Johnny"})
	require.True(t, v.OK)
	assert.Equal(t, "C002", v.CustomerID)

	v = r.Resolve(identity.Query{Phone: "9876543212", Name: "John Doe"})
	require.True(t, v.OK)
	assert.Equal(t, "C003", v.CustomerID)

	// A loan miss is final even when the name would match.
	v = r.Resolve(identity.Query{Loan: "LN404", Name: "John"})
	assert.False(t, v.OK)
}

func TestResolve_SplitsName(t *testing.T) {
	r := newResolver(t, testutil.WithCustomers(testutil.CustomerHeaderCompact,
		[]string{"C010", "John Doe", "LN001", "9000000001", "Swift", "Pune"},
		[]string{"", "Cher", "LN002", "9000000002", "Polo", "Goa"},
	))

	v := r.Resolve(identity.Query{Loan: "LN001"})
	require.True(t, v.OK)
	assert.Equal(t, "C010", v.CustomerID)
	assert.Equal(t, "John", v.FirstName)
	assert.Equal(t, "Doe", v.LastName)

	v = r.Resolve(identity.Query{Loan: "ln002"})
	require.True(t, v.OK)
	assert.Equal(t, "LN002", v.CustomerID, "falls back to the loan id")
	assert.Equal(t, "Cher", v.FirstName)
	assert.Empty(t, v.LastName)
}

func TestResolve_Failures(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		v := newResolver(t).Resolve(identity.Query{Name: "  "})
		assert.False(t, v.OK)
		assert.Equal(t, identity.ReasonNoQuery, v.Reason)
	})

	t.Run("no data", func(t *testing.T) {
		r := identity.NewResolver(records.NewStore(nil, nil, nil))
		v := r.Resolve(identity.Query{Loan: "LN001"})
		assert.Equal(t, identity.ReasonNoData, v.Reason)
		assert.ErrorIs(t, v.Err, domain.ErrDataUnavailable)
	})

	t.Run("schema missing", func(t *testing.T) {
		r := newResolver(t, testutil.WithCustomers([]string{"customer_id", "city"},
			[]string{"C001", "Pune"},
		))
		tests := []struct {
			q      identity.Query
			reason string
		}{
			{identity.Query{Loan: "LN001"}, identity.ReasonNoLoanColumn},
			{identity.Query{Phone: "9876543210"}, identity.ReasonNoPhoneColumn},
			{identity.Query{Name: "John"}, identity.ReasonNoNameColumn},
		}
		for _, tt := range tests {
			v := r.Resolve(tt.q)
			assert.False(t, v.OK)
			assert.Equal(t, tt.reason, v.Reason)
			assert.ErrorIs(t, v.Err, domain.ErrSchemaMissing)
		}
	})
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "919876543210", identity.NormalizePhone("+91 (987) 654-3210"))
	assert.Equal(t, "", identity.NormalizePhone("n/a"))
}
