package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/cli/formatter"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/spf13/cobra"
)

func newAskCmd(app *App) *cobra.Command {
	var q identity.Query
	var modeFlag string

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask a single question in a fresh session",
		Long: `Run one conversational turn and print the reply. Identifying flags
verify the customer before the question is asked, e.g.

  autofin ask --loan LN001 "when is my next EMI due?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeFlag, app.Core.Config.Mode)
			if err != nil {
				return err
			}
			a, err := app.Core.NewAssistant(mode)
			if err != nil {
				return err
			}
			if !q.Empty() {
				v, err := resolve(app, q)
				if err != nil {
					return err
				}
				a.Session().Verify(v)
			}

			text := strings.Join(args, " ")
			stop := func() {}
			if mode != domain.ModeRule && app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...")
			}
			out := a.Handle(cmd.Context(), text)
			stop()

			intent := domain.IntentUnknown
			if steps := a.Session().Transcript(); len(steps) > 0 {
				intent = steps[len(steps)-1].Intent
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(out, intent))
			return nil
		},
	}

	addIdentityFlags(cmd.Flags(), &q)
	addModeFlag(cmd.Flags(), &modeFlag)
	return cmd
}
