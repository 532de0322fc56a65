package repositories

import (
	"context"
)

// TxRepositories are the repositories bound to a single unit of work.
// Everything written through them commits or rolls back together.
type TxRepositories struct {
	Accounts     AccountTxRepository
	Transactions TransactionTxRepository
	Sequences    SequenceAllocator
	FXRecords    FXRecordWriter
}

// UnitOfWork runs fn atomically. If fn returns an error nothing it wrote is kept.
// Implementations never retry fn.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
