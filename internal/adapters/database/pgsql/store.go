package pgsql

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of every repository port.
type Store struct {
	BaseRepository
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// NewStore creates a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool}}
}

// Repositories returns the pool-backed repositories the services read through.
func (s *Store) Repositories() *portsrepo.RepositoryProvider {
	fx := &PgxFXRepository{db: s.Pool}
	return &portsrepo.RepositoryProvider{
		UnitOfWork:       s,
		AccountRepo:      &PgxAccountRepository{db: s.Pool},
		TransactionRepo:  &PgxTransactionRepository{db: s.Pool},
		ExchangeRateRepo: &PgxExchangeRateRepository{db: s.Pool},
		DocumentRepo:     fx,
		SettingsRepo:     fx,
		FXRecordRepo:     fx,
	}
}

// WithinTx runs fn inside one database transaction. Any error from fn rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.Rollback(ctx, tx); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	txns := &PgxTransactionRepository{db: tx}
	repos := portsrepo.TxRepositories{
		Accounts:     &PgxAccountRepository{db: tx},
		Transactions: txns,
		Sequences:    txns,
		FXRecords:    &PgxFXRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}
