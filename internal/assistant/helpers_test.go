package assistant_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/autofin/internal/assistant"
	"github.com/alexanderramin/autofin/internal/handler"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

type fixture struct {
	router *assistant.Router
	store  *records.Store
	paths  records.Paths
}

func newFixture(t *testing.T, opts ...testutil.DataOption) fixture {
	t.Helper()
	store, paths := testutil.NewTestStore(t, opts...)
	doc, err := records.LoadSOPDocument(paths.SOPDocument)
	require.NoError(t, err)

	return fixture{
		router: assistant.NewRouter(assistant.Handlers{
			Resolver: identity.NewResolver(store),
			Payments: handler.NewPayments(store, ""),
			Claims:   handler.NewClaims(store.Claims(), fixedClock, ""),
			SOP:      handler.NewSOP(doc),
		}),
		store: store,
		paths: paths,
	}
}

// turn runs one utterance through a responder and fails on error.
func turn(t *testing.T, r assistant.Responder, s *assistant.Session, text string) assistant.Reply {
	t.Helper()
	reply, err := r.Respond(context.Background(), s, text)
	require.NoError(t, err)
	return reply
}

func claimLines(t *testing.T, f fixture) int {
	t.Helper()
	if _, err := os.Stat(f.paths.Claims); err != nil {
		return 0
	}
	return testutil.CountLines(t, f.paths.Claims)
}
