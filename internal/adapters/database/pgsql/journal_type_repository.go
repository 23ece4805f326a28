package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalTypeColumns = `
	journal_type_id, organization_id, code, name, kind, rules, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalTypeRepository struct {
	BaseRepository
}

func newPgxJournalTypeRepository(pool *pgxpool.Pool) *PgxJournalTypeRepository {
	return &PgxJournalTypeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalTypeRepositoryFacade = (*PgxJournalTypeRepository)(nil)

// scanJournalType decodes the jsonb rules column into the typed rule list.
func scanJournalType(row rowScanner) (domain.JournalType, error) {
	var (
		t     domain.JournalType
		rules []byte
	)
	err := row.Scan(
		&t.JournalTypeID, &t.OrganizationID, &t.Code, &t.Name, &t.Kind, &rules, &t.IsActive,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	if err != nil {
		return t, err
	}
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &t.Rules); err != nil {
			return t, fmt.Errorf("journal type %s has unreadable rules: %w", t.Code, err)
		}
	}
	return t, nil
}

// UpsertJournalType inserts or replaces the type identified by (organization, code).
func (r *PgxJournalTypeRepository) UpsertJournalType(ctx context.Context, t domain.JournalType) error {
	rules, err := json.Marshal(t.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode rules of journal type %s: %w", t.Code, err)
	}
	query := `
		INSERT INTO journal_types (` + journalTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (organization_id, code)
		DO UPDATE SET name = EXCLUDED.name, kind = EXCLUDED.kind, rules = EXCLUDED.rules,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		t.JournalTypeID, t.OrganizationID, t.Code, t.Name, t.Kind, rules, t.IsActive,
		t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy,
	)
	if err != nil {
		return internalError("failed to save journal type "+t.Code, err)
	}
	return nil
}

func (r *PgxJournalTypeRepository) FindJournalTypeByID(ctx context.Context, journalTypeID string) (*domain.JournalType, error) {
	return findJournalTypeByID(ctx, r.Pool, journalTypeID)
}

func (r *PgxJournalTypeRepository) FindJournalTypeByCode(ctx context.Context, organizationID, code string) (*domain.JournalType, error) {
	query := `SELECT ` + journalTypeColumns + ` FROM journal_types WHERE organization_id = $1 AND code = $2;`
	t, err := scanJournalType(r.Pool.QueryRow(ctx, query, organizationID, code))
	if err != nil {
		return nil, notFoundOr(err, "journal type "+code+" not found", "failed to find journal type")
	}
	return &t, nil
}

func (r *PgxJournalTypeRepository) ListJournalTypes(ctx context.Context, organizationID string) ([]domain.JournalType, error) {
	query := `SELECT ` + journalTypeColumns + ` FROM journal_types WHERE organization_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list journal types", err)
	}
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JournalType, error) {
		return scanJournalType(row)
	})
	if err != nil {
		return nil, internalError("failed to scan journal types", err)
	}
	return types, nil
}

func findJournalTypeByID(ctx context.Context, q querier, journalTypeID string) (*domain.JournalType, error) {
	query := `SELECT ` + journalTypeColumns + ` FROM journal_types WHERE journal_type_id = $1;`
	t, err := scanJournalType(q.QueryRow(ctx, query, journalTypeID))
	if err != nil {
		return nil, notFoundOr(err, "journal type "+journalTypeID+" not found", "failed to find journal type")
	}
	return &t, nil
}
