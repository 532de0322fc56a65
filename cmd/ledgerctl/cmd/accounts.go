package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// chartFile is the YAML layout accepted by "accounts seed".
//
//	accounts:
//	  - code: "1000"
//	    name: Cash
//	    type: ASSET
//	    currency: UGX
type chartFile struct {
	Accounts []dto.CreateAccountRequest `yaml:"accounts"`
}

func newAccountsCmd(open serviceFactory) *cobra.Command {
	accounts := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts maintenance",
	}
	accounts.AddCommand(newSeedCmd(open))
	return accounts
}

func newSeedCmd(open serviceFactory) *cobra.Command {
	var org, file, user string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the accounts listed in a YAML chart file",
		Long:  "Accounts whose code already exists in the organization are left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			chart, err := parseChart(f)
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(svc *portssvc.ServiceContainer) error {
				return seedAccounts(cmd.Context(), svc.Account, org, user, chart, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization ID")
	cmd.Flags().StringVar(&file, "file", "", "chart of accounts YAML file")
	cmd.Flags().StringVar(&user, "user", "", "user ID recorded on the accounts")
	requireFlags(cmd, "org", "file", "user")
	return cmd
}

func parseChart(r io.Reader) (*chartFile, error) {
	var chart chartFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&chart); err != nil {
		return nil, fmt.Errorf("invalid chart file: %w", err)
	}
	if len(chart.Accounts) == 0 {
		return nil, errors.New("invalid chart file: no accounts listed")
	}
	return &chart, nil
}

func seedAccounts(ctx context.Context, svc portssvc.AccountSvcFacade, org, user string, chart *chartFile, out io.Writer) error {
	var created, skipped int
	for _, req := range chart.Accounts {
		_, err := svc.GetAccountByCode(ctx, org, req.Code)
		if err == nil {
			skipped++
			slog.Debug("Account exists, skipping", "code", req.Code)
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		acc, err := svc.CreateAccount(ctx, org, req, user)
		if err != nil {
			return fmt.Errorf("account %s: %w", req.Code, err)
		}
		created++
		fmt.Fprintf(out, "Created %s %s (%s)\n", acc.Code, acc.Name, acc.AccountType)
	}

	fmt.Fprintf(out, "%d created, %d already present\n", created, skipped)
	return nil
}
