package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerEntryColumns = `
	entry_id, sequence, organization_id, account_id, journal_id, journal_line_id, line_number, period_id,
	transaction_date, debit_amount, credit_amount, functional_debit, functional_credit, balance_after,
	currency_code, exchange_rate, department_id, project_id, cost_center_id, source_module,
	created_by, created_at`

// PgxLedgerRepository reads the general ledger, idempotency keys and the audit log.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.LedgerReader      = (*PgxLedgerRepository)(nil)
	_ portsrepo.IdempotencyReader = (*PgxLedgerRepository)(nil)
	_ portsrepo.AuditRepository   = (*PgxLedgerRepository)(nil)
)

func scanLedgerEntry(row rowScanner) (domain.GeneralLedgerEntry, error) {
	var e domain.GeneralLedgerEntry
	err := row.Scan(
		&e.EntryID, &e.Sequence, &e.OrganizationID, &e.AccountID, &e.JournalID, &e.JournalLineID, &e.LineNumber, &e.PeriodID,
		&e.TransactionDate, &e.DebitAmount, &e.CreditAmount, &e.FunctionalDebit, &e.FunctionalCredit, &e.BalanceAfter,
		&e.CurrencyCode, &e.ExchangeRate, &e.DepartmentID, &e.ProjectID, &e.CostCenterID, &e.SourceModule,
		&e.CreatedBy, &e.CreatedAt,
	)
	return e, err
}

func collectLedgerEntries(rows pgx.Rows, err error) ([]domain.GeneralLedgerEntry, error) {
	if err != nil {
		return nil, internalError("failed to query ledger entries", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GeneralLedgerEntry, error) {
		return scanLedgerEntry(row)
	})
	if err != nil {
		return nil, internalError("failed to scan ledger entries", err)
	}
	return entries, nil
}

// ListLedgerEntries pages an account's entries newest first; the token is the last sequence returned.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM general_ledger_entries WHERE organization_id = $1 AND account_id = $2`
	args := []any{organizationID, accountID}
	if nextToken != nil && *nextToken != "" {
		before, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		query += ` AND sequence < $3`
		args = append(args, before)
	}
	query += fmt.Sprintf(" ORDER BY sequence DESC LIMIT %d", limit+1)

	entries, err := collectLedgerEntries(r.Pool.Query(ctx, query, args...))
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	token := pagination.EncodeSequenceToken(page[len(page)-1].Sequence)
	return page, &token, nil
}

// ListAccountChain returns every entry of an account in creation order.
func (r *PgxLedgerRepository) ListAccountChain(ctx context.Context, organizationID, accountID string) ([]domain.GeneralLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM general_ledger_entries
		WHERE organization_id = $1 AND account_id = $2 ORDER BY sequence;`
	return collectLedgerEntries(r.Pool.Query(ctx, query, organizationID, accountID))
}

func (r *PgxLedgerRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.GeneralLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM general_ledger_entries WHERE journal_id = $1 ORDER BY line_number;`
	return collectLedgerEntries(r.Pool.Query(ctx, query, journalID))
}

func (r *PgxLedgerRepository) CountLedgerEntries(ctx context.Context, organizationID, accountID string) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM general_ledger_entries WHERE organization_id = $1 AND account_id = $2;`,
		organizationID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, internalError("failed to count ledger entries", err)
	}
	return n, nil
}

func (r *PgxLedgerRepository) FindIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.IdempotencyRecord, error) {
	return findIdempotencyKey(ctx, r.Pool, organizationID, key)
}

func findIdempotencyKey(ctx context.Context, q querier, organizationID, key string) (*domain.IdempotencyRecord, error) {
	var rec domain.IdempotencyRecord
	err := q.QueryRow(ctx, `
		SELECT organization_id, idempotency_key, journal_id, created_at
		FROM idempotency_keys
		WHERE organization_id = $1 AND idempotency_key = $2;`,
		organizationID, key,
	).Scan(&rec.OrganizationID, &rec.Key, &rec.JournalID, &rec.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, "idempotency key not found", "failed to find idempotency key")
	}
	return &rec, nil
}

// SaveAuditEvent appends an audit event; details are stored as jsonb.
func (r *PgxLedgerRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	_, err = r.Pool.Exec(ctx, `
		INSERT INTO audit_events (event_id, organization_id, actor_id, subject_type, subject_id, action, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		event.EventID, event.OrganizationID, event.ActorID, event.SubjectType, event.SubjectID, event.Action, details, event.Timestamp,
	)
	if err != nil {
		return internalError("failed to save audit event", err)
	}
	return nil
}

// ListAuditEvents lists events oldest first. Empty subject filters match everything.
func (r *PgxLedgerRepository) ListAuditEvents(ctx context.Context, organizationID, subjectType, subjectID string) ([]domain.AuditEvent, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT event_id, organization_id, actor_id, subject_type, subject_id, action, details, occurred_at
		FROM audit_events
		WHERE organization_id = $1
		  AND ($2 = '' OR subject_type = $2)
		  AND ($3 = '' OR subject_id = $3)
		ORDER BY occurred_at, event_id;`,
		organizationID, subjectType, subjectID,
	)
	if err != nil {
		return nil, internalError("failed to list audit events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditEvent, error) {
		var (
			e       domain.AuditEvent
			details []byte
		)
		if err := row.Scan(&e.EventID, &e.OrganizationID, &e.ActorID, &e.SubjectType, &e.SubjectID, &e.Action, &details, &e.Timestamp); err != nil {
			return e, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return e, err
			}
		}
		return e, nil
	})
	if err != nil {
		return nil, internalError("failed to scan audit events", err)
	}
	return events, nil
}
