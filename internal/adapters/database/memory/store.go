// Package memory is an in-process ledger store with the same unit-of-work semantics
// as the PostgreSQL adapter. Units of work are serialized; each runs against a private
// copy of the state that replaces the committed state only when it succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type state struct {
	accounts     map[string]domain.Account
	accountCodes map[string]string // organizationID|code -> accountID
	transactions map[string]domain.Transaction
	sequences    map[string]int64 // organizationID|type -> last number
	rates        map[string]domain.ExchangeRate
	documents    map[string]domain.ForeignDocument
	settings     map[string]domain.LedgerSettings
	fxRecords    []domain.FXRecord
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		accountCodes: make(map[string]string),
		transactions: make(map[string]domain.Transaction),
		sequences:    make(map[string]int64),
		rates:        make(map[string]domain.ExchangeRate),
		documents:    make(map[string]domain.ForeignDocument),
		settings:     make(map[string]domain.LedgerSettings),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.accountCodes {
		c.accountCodes[k] = v
	}
	for k, v := range s.transactions {
		v.Entries = append([]domain.LedgerEntry(nil), v.Entries...)
		c.transactions[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	c.fxRecords = append([]domain.FXRecord(nil), s.fxRecords...)
	return c
}

// Store is a thread-safe in-memory implementation of every ledger repository port.
type Store struct {
	txMu      sync.Mutex   // serializes writers
	mu        sync.RWMutex // guards committed
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

var (
	_ portsrepo.UnitOfWork                   = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransactionReader            = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade = (*Store)(nil)
	_ portsrepo.DocumentReader               = (*Store)(nil)
	_ portsrepo.SettingsReader               = (*Store)(nil)
	_ portsrepo.FXRecordReader               = (*Store)(nil)
)

// Repositories returns a provider wired entirely to this store.
func (s *Store) Repositories() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UnitOfWork:       s,
		AccountRepo:      s,
		TransactionRepo:  s,
		ExchangeRateRepo: s,
		DocumentRepo:     s,
		SettingsRepo:     s,
		FXRecordRepo:     s,
	}
}

// WithinTx implements portsrepo.UnitOfWork.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	v := &view{st: work}
	if err := fn(ctx, portsrepo.TxRepositories{
		Accounts:     v,
		Transactions: v,
		Sequences:    v,
		FXRecords:    v,
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// read runs fn against the committed state.
func (s *Store) read(fn func(v *view)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&view{st: s.committed})
}

// write runs fn against the committed state with no unit of work in flight.
func (s *Store) write(fn func(v *view) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{st: s.committed})
}

// PutDocument makes an invoice or bill visible to the FX engine.
func (s *Store) PutDocument(doc domain.ForeignDocument) {
	_ = s.write(func(v *view) error {
		v.st.documents[docKey(doc.OrganizationID, doc.DocumentType, doc.DocumentID)] = doc
		return nil
	})
}

// PutSettings stores an organization's ledger settings.
func (s *Store) PutSettings(settings domain.LedgerSettings) {
	_ = s.write(func(v *view) error {
		v.st.settings[settings.OrganizationID] = settings
		return nil
	})
}
