package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/autofin/internal/cli/formatter"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			ctx := cmd.Context()

			var items []*domain.Interaction
			var err error
			if sessionID != "" {
				items, err = app.Core.Interactions.ListBySession(ctx, sessionID)
				if len(items) > limit {
					items = items[len(items)-limit:]
				}
			} else {
				items, err = app.Core.Interactions.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(items, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only show turns from this session ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of turns to show")
	return cmd
}
