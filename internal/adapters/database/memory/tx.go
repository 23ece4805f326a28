package memory

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// memTx works on a private clone; the Store's writer lock makes every lock it hands out exclusive.
type memTx struct {
	st   *state
	hook func(entry domain.GeneralLedgerEntry) error
}

func (t *memTx) FindPeriodCovering(_ context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	return t.st.periodCovering(organizationID, date)
}

func (t *memTx) FindJournalTypeByID(_ context.Context, journalTypeID string) (*domain.JournalType, error) {
	return t.st.journalType(journalTypeID)
}

func (t *memTx) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return t.st.accountsByIDs(accountIDs), nil
}

func (t *memTx) FindIdempotencyKey(_ context.Context, organizationID, key string) (*domain.IdempotencyRecord, error) {
	return t.st.idempotencyKey(organizationID, key)
}

func (t *memTx) LockJournal(_ context.Context, organizationID, journalID string) (*domain.Journal, error) {
	return t.st.journal(organizationID, journalID)
}

func (t *memTx) InsertJournal(_ context.Context, journal domain.Journal) error {
	return t.st.insertJournal(journal)
}

func (t *memTx) NextJournalSequence(_ context.Context, journalTypeID, periodID string) (int64, error) {
	key := journalTypeID + "|" + periodID
	t.st.sequences[key]++
	return t.st.sequences[key], nil
}

func (t *memTx) MarkJournalPosted(_ context.Context, journal domain.Journal) error {
	if _, ok := t.st.journals[journal.JournalID]; !ok {
		return apperrors.NewNotFoundError("journal not found")
	}
	t.st.journals[journal.JournalID] = copyJournal(journal)
	return nil
}

func (t *memTx) MarkJournalReversed(_ context.Context, journalID, reversalID, userID string, at time.Time) error {
	j, ok := t.st.journals[journalID]
	if !ok {
		return apperrors.NewNotFoundError("journal not found")
	}
	if j.Status != domain.StatusPosted {
		return apperrors.NewLedgerError(apperrors.KindReversalAlreadyExists, "journal is %s", j.Status).ForJournal(journalID)
	}
	j.Status = domain.StatusReversed
	j.ReversedByID = &reversalID
	j.IsLocked = true
	j.LastUpdatedBy = userID
	j.LastUpdatedAt = at
	t.st.journals[journalID] = j
	return nil
}

func (t *memTx) LockAccounts(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return t.st.accountsByIDs(accountIDs), nil
}

func (t *memTx) UpdateAccountBalance(_ context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	acc, ok := t.st.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	acc.CurrentBalance = balance
	acc.LastUpdatedAt = at
	t.st.accounts[accountID] = acc
	return nil
}

func (t *memTx) AppendLedgerEntry(_ context.Context, entry domain.GeneralLedgerEntry) (int64, error) {
	if t.hook != nil {
		if err := t.hook(entry); err != nil {
			return 0, err
		}
	}
	t.st.lastEntry++
	entry.Sequence = t.st.lastEntry
	t.st.entries = append(t.st.entries, entry)
	return entry.Sequence, nil
}

func (t *memTx) SaveIdempotencyKey(_ context.Context, record domain.IdempotencyRecord) error {
	k := idempotencyMapKey(record.OrganizationID, record.Key)
	if _, ok := t.st.idempotency[k]; ok {
		return apperrors.NewPostingConflictError(record.JournalID, apperrors.ErrDuplicate)
	}
	t.st.idempotency[k] = record
	return nil
}
