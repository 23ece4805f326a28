package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxTxManager runs posting units of work in one Postgres transaction each.
type PgxTxManager struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxTxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: lockTimeout}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// RunInTx commits when fn returns nil and rolls back otherwise.
// Lock timeouts, deadlocks and serialization failures surface as PostingConflict.
func (m *PgxTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer m.Rollback(ctx, tx)

	if m.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return internalError("failed to set lock timeout", err)
		}
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return asPostingConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return asPostingConflict(internalError("failed to commit posting transaction", err))
	}
	return nil
}

// asPostingConflict leaves ledger errors alone and turns storage lock failures into PostingConflict.
func asPostingConflict(err error) error {
	var le *apperrors.LedgerError
	if errors.As(err, &le) {
		return err
	}
	if isLockFailure(err) {
		return apperrors.NewPostingConflictError("", err)
	}
	return err
}

// pgxLedgerTx implements portsrepo.LedgerTx on an open pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	return findPeriodCovering(ctx, t.tx, organizationID, date)
}

func (t *pgxLedgerTx) FindJournalTypeByID(ctx context.Context, journalTypeID string) (*domain.JournalType, error) {
	return findJournalTypeByID(ctx, t.tx, journalTypeID)
}

func (t *pgxLedgerTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return findAccountsByIDs(ctx, t.tx, accountIDs, false)
}

func (t *pgxLedgerTx) FindIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.IdempotencyRecord, error) {
	return findIdempotencyKey(ctx, t.tx, organizationID, key)
}

// LockJournal takes a row lock on the journal header and loads its lines.
func (t *pgxLedgerTx) LockJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, t.tx, organizationID, journalID, true)
}

func (t *pgxLedgerTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	return insertJournal(ctx, t.tx, journal)
}

// NextJournalSequence upserts the (type, period) counter row; the row lock serializes numbering.
func (t *pgxLedgerTx) NextJournalSequence(ctx context.Context, journalTypeID, periodID string) (int64, error) {
	var next int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO journal_sequences (journal_type_id, period_id, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (journal_type_id, period_id)
		DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;`,
		journalTypeID, periodID,
	).Scan(&next)
	if err != nil {
		return 0, internalError("failed to allocate journal number", err)
	}
	return next, nil
}

// MarkJournalPosted stores the posting header and each line's functional amounts.
func (t *pgxLedgerTx) MarkJournalPosted(ctx context.Context, j domain.Journal) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journals
		SET journal_number = $2, period_id = $3, exchange_rate = $4, total_debit = $5, total_credit = $6,
			status = $7, is_locked = $8, posted_by = $9, posted_at = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE journal_id = $1;`,
		j.JournalID, nullableNumber(j.JournalNumber), j.PeriodID, j.ExchangeRate, j.TotalDebit, j.TotalCredit,
		j.Status, j.IsLocked, j.PostedBy, j.PostedAt, j.LastUpdatedAt, j.LastUpdatedBy,
	)
	if err != nil {
		return internalError("failed to mark journal "+j.JournalID+" posted", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + j.JournalID + " not found")
	}

	batch := &pgx.Batch{}
	for _, l := range j.Lines {
		batch.Queue(`UPDATE journal_lines SET functional_debit = $2, functional_credit = $3 WHERE line_id = $1;`,
			l.LineID, l.FunctionalDebit, l.FunctionalCredit)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return internalError("failed to store functional amounts", err)
	}
	return nil
}

// MarkJournalReversed moves a POSTED journal to REVERSED.
func (t *pgxLedgerTx) MarkJournalReversed(ctx context.Context, journalID, reversalID, userID string, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journals
		SET status = $2, reversed_by_id = $3, is_locked = TRUE, last_updated_by = $4, last_updated_at = $5
		WHERE journal_id = $1 AND status = $6;`,
		journalID, domain.StatusReversed, reversalID, userID, at, domain.StatusPosted,
	)
	if err != nil {
		return internalError("failed to mark journal reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewLedgerError(apperrors.KindReversalAlreadyExists, "journal is no longer posted").ForJournal(journalID)
	}
	return nil
}

// LockAccounts locks the rows in ascending account id order in a single statement.
func (t *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return findAccountsByIDs(ctx, t.tx, accountIDs, true)
}

func (t *pgxLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE accounts SET current_balance = $2, last_updated_at = $3 WHERE account_id = $1;`,
		accountID, balance, at,
	)
	if err != nil {
		return internalError("failed to update balance of account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}

// AppendLedgerEntry inserts an entry and returns the sequence the database assigned.
func (t *pgxLedgerTx) AppendLedgerEntry(ctx context.Context, e domain.GeneralLedgerEntry) (int64, error) {
	var seq int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO general_ledger_entries (
			entry_id, organization_id, account_id, journal_id, journal_line_id, line_number, period_id,
			transaction_date, debit_amount, credit_amount, functional_debit, functional_credit, balance_after,
			currency_code, exchange_rate, department_id, project_id, cost_center_id, source_module,
			created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING sequence;`,
		e.EntryID, e.OrganizationID, e.AccountID, e.JournalID, e.JournalLineID, e.LineNumber, e.PeriodID,
		e.TransactionDate, e.DebitAmount, e.CreditAmount, e.FunctionalDebit, e.FunctionalCredit, e.BalanceAfter,
		e.CurrencyCode, e.ExchangeRate, e.DepartmentID, e.ProjectID, e.CostCenterID, e.SourceModule,
		e.CreatedBy, e.CreatedAt,
	).Scan(&seq)
	if err != nil {
		return 0, internalError("failed to append ledger entry", err)
	}
	return seq, nil
}

// SaveIdempotencyKey records key -> journal; a reused key fails with PostingConflict.
func (t *pgxLedgerTx) SaveIdempotencyKey(ctx context.Context, rec domain.IdempotencyRecord) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO idempotency_keys (organization_id, idempotency_key, journal_id, created_at)
		VALUES ($1, $2, $3, $4);`,
		rec.OrganizationID, rec.Key, rec.JournalID, rec.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return apperrors.NewPostingConflictError(rec.JournalID, fmt.Errorf("%w: idempotency key %s", apperrors.ErrDuplicate, rec.Key))
		}
		return internalError("failed to save idempotency key", err)
	}
	return nil
}
