package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newFXCmd(open serviceFactory) *cobra.Command {
	fx := &cobra.Command{
		Use:   "fx",
		Short: "Foreign exchange jobs",
	}
	fx.AddCommand(newRevalueCmd(open))
	return fx
}

func newRevalueCmd(open serviceFactory) *cobra.Command {
	var (
		org, asOf, user string
		force           bool
	)

	cmd := &cobra.Command{
		Use:   "revalue",
		Short: "Post the period-end unrealized FX revaluation",
		Long: `Revalue every open foreign-currency invoice and bill at the closing rate
and post one FX_REVALUATION transaction for the date.

A date that already has a posted revaluation is refused unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(dateLayout, asOf)
			if err != nil {
				return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
			}
			return withServices(cmd, open, func(svc *portssvc.ServiceContainer) error {
				return revalue(cmd.Context(), svc, org, date, user, force, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization ID")
	cmd.Flags().StringVar(&asOf, "as-of", "", "revaluation date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&user, "user", "", "user ID recorded on the revaluation")
	cmd.Flags().BoolVar(&force, "force", false, "post even if the date was already revalued")
	requireFlags(cmd, "org", "as-of", "user")
	return cmd
}

func revalue(ctx context.Context, svc *portssvc.ServiceContainer, org string, asOf time.Time, user string, force bool, out io.Writer) error {
	asOf = domain.DateOnly(asOf)

	if !force {
		existing, _, err := svc.Ledger.ListTransactions(ctx, org, domain.TransactionFilter{
			TransactionType: domain.FXRevaluation,
			Status:          domain.Posted,
			FromDate:        &asOf,
			ToDate:          &asOf,
		}, 1, nil)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("revaluation %s is already posted for %s; rerun with --force to post another",
				existing[0].Reference(), asOf.Format(dateLayout))
		}
	}

	result, err := svc.FX.RecordUnrealizedFX(ctx, org, asOf, user)
	if err != nil {
		return err
	}

	if result.TransactionID == "" {
		slog.Info("Nothing to revalue", "organization_id", org, "as_of", asOf.Format(dateLayout))
		fmt.Fprintf(out, "No unrealized FX movement as of %s\n", asOf.Format(dateLayout))
		return nil
	}

	txn, err := svc.Ledger.GetTransaction(ctx, result.TransactionID)
	if err != nil {
		return err
	}
	slog.Info("Revaluation posted", "transaction_id", txn.TransactionID, "reference", txn.Reference())

	fmt.Fprintf(out, "Posted %s as of %s\n", txn.Reference(), asOf.Format(dateLayout))
	for _, r := range result.Records {
		fmt.Fprintf(out, "  %-7s %-20s %s %s -> %s  %s\n",
			r.DocumentType, r.DocumentNumber, r.ForeignCurrency,
			r.TransactionRate.String(), r.SettlementRate.String(), r.GainLossAmount.StringFixed(2))
	}
	fmt.Fprintf(out, "Total gain: %s\nTotal loss: %s\n", result.TotalGain.StringFixed(2), result.TotalLoss.StringFixed(2))
	return nil
}
