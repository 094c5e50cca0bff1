package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/cli/formatter"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/spf13/cobra"
)

func newVerifyCmd(app *App) *cobra.Command {
	var q identity.Query

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Look up a customer by loan number, phone or name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.Empty() {
				return errNoIdentity
			}
			v := app.Core.Resolver.Resolve(q)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatVerification(v))
			if !v.OK {
				return verificationError(v)
			}
			return nil
		},
	}

	addIdentityFlags(cmd.Flags(), &q)
	return cmd
}

func newPaymentCmd(app *App) *cobra.Command {
	var q identity.Query

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Show the next EMI and outstanding balance for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolve(app, q)
			if err != nil {
				return err
			}
			out := app.Core.Payments.Handle(v)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(out, domain.IntentPayment))
			return nil
		},
	}

	addIdentityFlags(cmd.Flags(), &q)
	return cmd
}

func newClaimCmd(app *App) *cobra.Command {
	var q identity.Query
	var req domain.ClaimRequest

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Check the open claim or file a new one",
		Long: `Report the customer's open claim. When there is none, a new claim
is filed with the given incident type and remarks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolve(app, q)
			if err != nil {
				return err
			}
			out, err := app.Core.Claims.Handle(cmd.Context(), v, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(out, domain.IntentClaim))
			return nil
		},
	}

	addIdentityFlags(cmd.Flags(), &q)
	cmd.Flags().StringVar(&req.IncidentType, "type", "", "Incident type for a new claim (default "+domain.DefaultIncidentType+")")
	cmd.Flags().StringVar(&req.Remarks, "remarks", "", "Remarks for a new claim")
	return cmd
}

func newSOPCmd(app *App) *cobra.Command {
	var q identity.Query

	cmd := &cobra.Command{
		Use:   "sop [question]",
		Short: "Explain insurance coverage and the claim process",
		Long: `Answer from the insurance knowledge base. Identifying flags are optional;
when given, the answer is personalised for that customer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v domain.Verification
			if !q.Empty() {
				var err error
				if v, err = resolve(app, q); err != nil {
					return err
				}
			}
			question := strings.Join(args, " ")
			if question == "" {
				question = "insurance coverage"
			}
			out := app.Core.SOP.Answer(question, v)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReply(out, domain.IntentSOP))
			return nil
		},
	}

	addIdentityFlags(cmd.Flags(), &q)
	return cmd
}
