// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// serviceFactory opens the services a command runs against and returns a cleanup func.
type serviceFactory func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

// openServices connects to the configured PostgreSQL database. The CLI never
// posts invoices, so fiscal notifications are off.
func openServices(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, nil, err
	}
	store := pgsql.NewStore(pool)
	return services.NewContainer(store.Repositories(), ports.NoopNotifier{}), func() { database.ClosePgxPool(pool) }, nil
}

// Execute runs ledgerctl against the configured database.
func Execute() error {
	return newRootCmd(openServices).Execute()
}

func newRootCmd(open serviceFactory) *cobra.Command {
	var (
		envFile string
		debug   bool
	)

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the ledger engine from the command line",
		Long: `ledgerctl runs batch and maintenance jobs against the ledger database.

Example:
  ledgerctl migrate
  ledgerctl fx revalue --org acme --as-of 2026-06-30 --user ops
  ledgerctl accounts seed --org acme --file chart.yaml --user ops
  ledgerctl tax --amount 118 --rate 0.18 --inclusive`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading configuration (default .env)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newFXCmd(open))
	root.AddCommand(newAccountsCmd(open))
	root.AddCommand(newTaxCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, slog.Default())
		},
	}
}

// withServices opens the services for one command run.
func withServices(cmd *cobra.Command, open serviceFactory, fn func(svc *portssvc.ServiceContainer) error) error {
	svc, closeFn, err := open(cmd.Context())
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(svc)
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}
