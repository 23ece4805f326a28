// Package memory is a process-local implementation of every repository port.
// It backs the test suites and the "memory" storage driver.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
)

// state is the full data set. A unit of work mutates a private clone of it.
type state struct {
	orgs        map[string]domain.Organization
	accounts    map[string]domain.Account
	periods     map[string]domain.AccountingPeriod
	rates       []domain.ExchangeRate
	types       map[string]domain.JournalType
	journals    map[string]domain.Journal
	sequences   map[string]int64
	entries     []domain.GeneralLedgerEntry
	lastEntry   int64
	idempotency map[string]domain.IdempotencyRecord
}

func newState() *state {
	return &state{
		orgs:        make(map[string]domain.Organization),
		accounts:    make(map[string]domain.Account),
		periods:     make(map[string]domain.AccountingPeriod),
		types:       make(map[string]domain.JournalType),
		journals:    make(map[string]domain.Journal),
		sequences:   make(map[string]int64),
		idempotency: make(map[string]domain.IdempotencyRecord),
	}
}

func (st *state) clone() *state {
	c := &state{
		orgs:        cloneMap(st.orgs),
		accounts:    cloneMap(st.accounts),
		periods:     cloneMap(st.periods),
		rates:       slices.Clone(st.rates),
		types:       cloneMap(st.types),
		journals:    make(map[string]domain.Journal, len(st.journals)),
		sequences:   cloneMap(st.sequences),
		entries:     slices.Clone(st.entries),
		lastEntry:   st.lastEntry,
		idempotency: cloneMap(st.idempotency),
	}
	for id, j := range st.journals {
		c.journals[id] = copyJournal(j)
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// copyJournal detaches the line slice so callers cannot alias stored state.
func copyJournal(j domain.Journal) domain.Journal {
	j.Lines = slices.Clone(j.Lines)
	return j
}

// Store keeps everything in maps guarded by a mutex.
// Units of work run one at a time; each one commits by swapping in its clone.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	st      *state

	// audit sits outside state so events never wait on a unit of work.
	auditMu sync.Mutex
	audit   []domain.AuditEvent

	// BeforeAppendEntry, when set, runs before every ledger entry is written.
	// Returning an error aborts the unit of work.
	BeforeAppendEntry func(entry domain.GeneralLedgerEntry) error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Compile-time checks.
var (
	_ portsrepo.OrganizationReader           = (*Store)(nil)
	_ portsrepo.AccountReader                = (*Store)(nil)
	_ portsrepo.PeriodRepositoryFacade       = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalTypeRepositoryFacade  = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*Store)(nil)
	_ portsrepo.LedgerReader                 = (*Store)(nil)
	_ portsrepo.IdempotencyReader            = (*Store)(nil)
	_ portsrepo.AuditRepository              = (*Store)(nil)
	_ portsrepo.TransactionManager           = (*Store)(nil)
	_ portsrepo.LedgerTx                     = (*memTx)(nil)
)

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrganizationRepo: s,
		AccountRepo:      s,
		PeriodRepo:       s,
		ExchangeRateRepo: s,
		JournalTypeRepo:  s,
		JournalRepo:      s,
		LedgerRepo:       s,
		IdempotencyRepo:  s,
		AuditRepo:        s,
		TxManager:        s,
	}
}

// RunInTx runs fn against a private copy of the data and publishes it only when fn succeeds
// and ctx is still live.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &memTx{st: work, hook: s.BeforeAppendEntry}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// read runs fn under the read lock.
func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write runs fn serialized with units of work, mutating the live state.
func (s *Store) write(fn func(st *state) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}
