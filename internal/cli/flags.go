package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/spf13/pflag"
)

var errNoIdentity = errors.New("one of --loan, --phone or --name is required")

// addIdentityFlags registers --loan, --phone and --name on fs.
func addIdentityFlags(fs *pflag.FlagSet, q *identity.Query) {
	fs.StringVar(&q.Loan, "loan", "", "Loan number, e.g. LN001")
	fs.StringVar(&q.Phone, "phone", "", "Registered phone number")
	fs.StringVar(&q.Name, "name", "", "Customer full or first name")
}

func addModeFlag(fs *pflag.FlagSet, mode *string) {
	fs.StringVar(mode, "mode", "", "Agent mode: rule, supervisor or llm")
}

// parseMode validates a --mode value, falling back to def when empty.
func parseMode(flag string, def domain.AgentMode) (domain.AgentMode, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag == "" {
		return def, nil
	}
	if !domain.ValidAgentModes[flag] {
		return "", fmt.Errorf("invalid mode %q (valid: rule, supervisor, llm)", flag)
	}
	return domain.AgentMode(flag), nil
}

// resolve looks up the customer named by q and fails when nobody matches.
func resolve(app *App, q identity.Query) (domain.Verification, error) {
	if q.Empty() {
		return domain.Verification{}, errNoIdentity
	}
	v := app.Core.Resolver.Resolve(q)
	if !v.OK {
		return v, verificationError(v)
	}
	return v, nil
}

func verificationError(v domain.Verification) error {
	if v.Err != nil {
		return fmt.Errorf("verification failed: %s: %w", v.Reason, v.Err)
	}
	return fmt.Errorf("verification failed: %s", v.Reason)
}
