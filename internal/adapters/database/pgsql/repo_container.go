package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every storage port onto dbPool.
// lockTimeout bounds how long a posting waits for account row locks.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: accountRepo,
		AccountRepo:      accountRepo,
		PeriodRepo:       newPgxPeriodRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		JournalTypeRepo:  newPgxJournalTypeRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		LedgerRepo:       ledgerRepo,
		IdempotencyRepo:  ledgerRepo,
		AuditRepo:        ledgerRepo,
		TxManager:        newPgxTxManager(dbPool, lockTimeout),
	}
}
