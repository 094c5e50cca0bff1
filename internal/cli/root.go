package cli

import (
	"github.com/alexanderramin/autofin/internal/app"
	"github.com/spf13/cobra"
)

// App is what the CLI commands run against.
type App struct {
	Core *app.App

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "autofin" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "autofin",
		Short:         "Auto finance customer support assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runChat(cmd, app, "")
		},
	}

	root.AddCommand(
		newChatCmd(app),
		newAskCmd(app),
		newVerifyCmd(app),
		newPaymentCmd(app),
		newClaimCmd(app),
		newSOPCmd(app),
		newHistoryCmd(app),
	)

	return root
}
