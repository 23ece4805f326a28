package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidationSource is everything the validation pipeline reads.
// It is satisfied both by the plain repositories and by an open LedgerTx.
type ValidationSource interface {
	FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)
	FindJournalTypeByID(ctx context.Context, journalTypeID string) (*domain.JournalType, error)
	// FindAccountsByIDs is not scoped to an organization so the pipeline can detect cross-organization lines.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	IdempotencyReader
}

// LedgerTx is one all-or-nothing unit of work over the posting tables.
type LedgerTx interface {
	ValidationSource

	// LockJournal loads a journal with its lines and holds it exclusively until the unit ends.
	LockJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error)

	// InsertJournal stores a new journal and its lines.
	InsertJournal(ctx context.Context, journal domain.Journal) error

	// NextJournalSequence increments and returns the counter for (journal type, period).
	NextJournalSequence(ctx context.Context, journalTypeID, periodID string) (int64, error)

	// MarkJournalPosted persists number, period, lines' functional amounts, posted status and lock.
	MarkJournalPosted(ctx context.Context, journal domain.Journal) error

	// MarkJournalReversed moves a POSTED journal to REVERSED. If the journal is no longer
	// POSTED it fails with apperrors.ErrReversalAlreadyExists.
	MarkJournalReversed(ctx context.Context, journalID, reversalID, userID string, at time.Time) error

	// LockAccounts takes exclusive locks on the accounts in ascending id order.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error

	// AppendLedgerEntry writes an immutable entry and returns its store-assigned sequence.
	AppendLedgerEntry(ctx context.Context, entry domain.GeneralLedgerEntry) (int64, error)

	// SaveIdempotencyKey records key -> journal. An existing key fails with apperrors.ErrPostingConflict.
	SaveIdempotencyKey(ctx context.Context, record domain.IdempotencyRecord) error
}

// TransactionManager runs fn inside a single storage transaction.
// fn's error rolls everything back; a nil return commits.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
