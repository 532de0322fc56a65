package cmd

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/money"
	"github.com/SscSPs/ledger_engine/internal/core/tax"
	"github.com/spf13/cobra"
)

func newTaxCmd() *cobra.Command {
	var (
		amount, rate string
		inclusive    bool
	)

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Split an amount into net, tax and total",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := money.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			r, err := money.ParseAmount(rate)
			if err != nil {
				return fmt.Errorf("--rate: %w", err)
			}

			res, err := tax.CalculateTax(amt, r, inclusive)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Net:            %s\n", res.Net.StringFixed(2))
			fmt.Fprintf(out, "Tax:            %s\n", res.Tax.StringFixed(2))
			fmt.Fprintf(out, "Total:          %s\n", res.Total.StringFixed(2))
			fmt.Fprintf(out, "Effective rate: %s\n", res.EffectiveRate.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount to split")
	cmd.Flags().StringVar(&rate, "rate", "", "tax rate as a fraction, e.g. 0.18")
	cmd.Flags().BoolVar(&inclusive, "inclusive", false, "amount already includes tax")
	requireFlags(cmd, "amount", "rate")
	return cmd
}
