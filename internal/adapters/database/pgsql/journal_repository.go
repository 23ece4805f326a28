package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `
	journal_id, organization_id, journal_type_id, period_id, journal_number, journal_date,
	currency_code, exchange_rate, description, reference, total_debit, total_credit,
	status, is_locked, is_reversal, reversal_of_id, reversed_by_id, source_module,
	posted_by, posted_at, approved_by, approved_at, rejection_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `
	line_id, journal_id, line_number, account_id, description,
	debit_amount, credit_amount, functional_debit, functional_credit,
	department_id, project_id, cost_center_id, tax_code, tax_amount`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journals and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row rowScanner) (domain.Journal, error) {
	var (
		j      domain.Journal
		number *string
	)
	err := row.Scan(
		&j.JournalID, &j.OrganizationID, &j.JournalTypeID, &j.PeriodID, &number, &j.JournalDate,
		&j.CurrencyCode, &j.ExchangeRate, &j.Description, &j.Reference, &j.TotalDebit, &j.TotalCredit,
		&j.Status, &j.IsLocked, &j.IsReversal, &j.ReversalOfID, &j.ReversedByID, &j.SourceModule,
		&j.PostedBy, &j.PostedAt, &j.ApprovedBy, &j.ApprovedAt, &j.RejectionReason,
		&j.CreatedAt, &j.CreatedBy, &j.LastUpdatedAt, &j.LastUpdatedBy,
	)
	if number != nil {
		j.JournalNumber = *number
	}
	return j, err
}

func scanJournalLine(row rowScanner) (domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID, &l.JournalID, &l.LineNumber, &l.AccountID, &l.Description,
		&l.DebitAmount, &l.CreditAmount, &l.FunctionalDebit, &l.FunctionalCredit,
		&l.DepartmentID, &l.ProjectID, &l.CostCenterID, &l.TaxCode, &l.TaxAmount,
	)
	return l, err
}

// nullableNumber stores an unassigned journal number as NULL so the unique index ignores drafts.
func nullableNumber(number string) *string {
	if number == "" {
		return nil
	}
	return &number
}

// FindJournalByID retrieves a journal and its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, r.Pool, organizationID, journalID, false)
}

// ListJournals pages journals newest first using a (journal_date, created_at, journal_id) keyset.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, organizationID string, params portsrepo.ListJournalsParams) ([]domain.Journal, *string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := `SELECT ` + journalColumns + ` FROM journals WHERE organization_id = $1`
	args := []any{organizationID}
	argNum := 2

	if params.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *params.Status)
		argNum++
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		query += fmt.Sprintf(" AND (journal_date, created_at, journal_id) < ($%d, $%d, $%d)", argNum, argNum+1, argNum+2)
		args = append(args, cursor.JournalDate, cursor.CreatedAt, cursor.JournalID)
		argNum += 3
	}
	query += fmt.Sprintf(" ORDER BY journal_date DESC, created_at DESC, journal_id DESC LIMIT $%d", argNum)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, internalError("failed to list journals", err)
	}
	journals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Journal, error) {
		return scanJournal(row)
	})
	if err != nil {
		return nil, nil, internalError("failed to scan journals", err)
	}

	if len(journals) <= limit {
		return journals, nil, nil
	}
	page := journals[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
	return page, &token, nil
}

// SaveDraft inserts the header and lines in one transaction.
func (r *PgxJournalRepository) SaveDraft(ctx context.Context, journal domain.Journal) error {
	return pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		return insertJournal(ctx, tx, journal)
	})
}

// ReplaceDraft rewrites header and lines while the journal is still editable and in journal.Status.
func (r *PgxJournalRepository) ReplaceDraft(ctx context.Context, journal domain.Journal) error {
	return pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		current, err := findJournalHeader(ctx, tx, journal.OrganizationID, journal.JournalID, true)
		if err != nil {
			return err
		}
		if !current.IsEditable() || current.Status != journal.Status {
			return apperrors.NewLedgerError(apperrors.KindJournalLocked,
				"journal changed to %s and can no longer be edited", current.Status).ForJournal(journal.JournalID)
		}

		update := `
			UPDATE journals
			SET journal_type_id = $2, period_id = $3, journal_date = $4, currency_code = $5, exchange_rate = $6,
				description = $7, reference = $8, total_debit = $9, total_credit = $10,
				last_updated_at = $11, last_updated_by = $12
			WHERE journal_id = $1;
		`
		if _, err := tx.Exec(ctx, update,
			journal.JournalID, journal.JournalTypeID, journal.PeriodID, journal.JournalDate,
			journal.CurrencyCode, journal.ExchangeRate, journal.Description, journal.Reference,
			journal.TotalDebit, journal.TotalCredit, journal.LastUpdatedAt, journal.LastUpdatedBy,
		); err != nil {
			return internalError("failed to update journal "+journal.JournalID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journal.JournalID); err != nil {
			return internalError("failed to delete journal lines", err)
		}
		return insertLines(ctx, tx, journal.Lines)
	})
}

// UpdateJournalStatus applies change only while the journal is unlocked and still in change.From.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, change portsrepo.StatusChange) error {
	return pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 FOR UPDATE;`
		j, err := scanJournal(tx.QueryRow(ctx, query, change.JournalID))
		if err != nil {
			return notFoundOr(err, "journal "+change.JournalID+" not found", "failed to load journal")
		}
		if j.IsLocked || j.Status != change.From {
			return apperrors.NewAppError(http.StatusConflict, "journal status changed concurrently", apperrors.ErrConflict)
		}
		change.Apply(&j)

		update := `
			UPDATE journals
			SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5,
				last_updated_at = $6, last_updated_by = $7
			WHERE journal_id = $1;
		`
		if _, err := tx.Exec(ctx, update,
			j.JournalID, j.Status, j.ApprovedBy, j.ApprovedAt, j.RejectionReason, j.LastUpdatedAt, j.LastUpdatedBy,
		); err != nil {
			return internalError("failed to update journal status", err)
		}
		return nil
	})
}

func findJournalHeader(ctx context.Context, q querier, organizationID, journalID string, forUpdate bool) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE organization_id = $1 AND journal_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	j, err := scanJournal(q.QueryRow(ctx, query, organizationID, journalID))
	if err != nil {
		return nil, notFoundOr(err, "journal "+journalID+" not found", "failed to find journal")
	}
	return &j, nil
}

// findJournal loads the header and its lines in line order.
func findJournal(ctx context.Context, q querier, organizationID, journalID string, forUpdate bool) (*domain.Journal, error) {
	j, err := findJournalHeader(ctx, q, organizationID, journalID, forUpdate)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `SELECT `+journalLineColumns+` FROM journal_lines WHERE journal_id = $1 ORDER BY line_number;`, journalID)
	if err != nil {
		return nil, internalError("failed to load journal lines", err)
	}
	j.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JournalLine, error) {
		return scanJournalLine(row)
	})
	if err != nil {
		return nil, internalError("failed to scan journal lines", err)
	}
	return j, nil
}

func insertJournal(ctx context.Context, q querier, j domain.Journal) error {
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27);
	`
	_, err := q.Exec(ctx, query,
		j.JournalID, j.OrganizationID, j.JournalTypeID, j.PeriodID, nullableNumber(j.JournalNumber), j.JournalDate,
		j.CurrencyCode, j.ExchangeRate, j.Description, j.Reference, j.TotalDebit, j.TotalCredit,
		j.Status, j.IsLocked, j.IsReversal, j.ReversalOfID, j.ReversedByID, j.SourceModule,
		j.PostedBy, j.PostedAt, j.ApprovedBy, j.ApprovedAt, j.RejectionReason,
		j.CreatedAt, j.CreatedBy, j.LastUpdatedAt, j.LastUpdatedBy,
	)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return apperrors.NewAppError(http.StatusConflict, "journal "+j.JournalID+" already exists", apperrors.ErrDuplicate)
		}
		return internalError("failed to insert journal "+j.JournalID, err)
	}
	return insertLines(ctx, q, j.Lines)
}

// insertLines writes every line in one batch.
func insertLines(ctx context.Context, q querier, lines []domain.JournalLine) error {
	query := `INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query,
			l.LineID, l.JournalID, l.LineNumber, l.AccountID, l.Description,
			l.DebitAmount, l.CreditAmount, l.FunctionalDebit, l.FunctionalCredit,
			l.DepartmentID, l.ProjectID, l.CostCenterID, l.TaxCode, l.TaxAmount,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return internalError("failed to insert journal lines", err)
	}
	return nil
}
