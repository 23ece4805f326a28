package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `
	period_id, organization_id, code, start_date, end_date, status, closed_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row rowScanner) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID, &p.OrganizationID, &p.Code, &p.StartDate, &p.EndDate, &p.Status, &p.ClosedAt, &p.ClosedBy,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

// SavePeriod inserts a period. Overlapping ranges are rejected by an exclusion constraint.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID, period.OrganizationID, period.Code,
		domain.DateOnly(period.StartDate), domain.DateOnly(period.EndDate),
		period.Status, period.ClosedAt, period.ClosedBy,
		period.CreatedAt, period.CreatedBy, period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation, codeExclusionViolation:
			return apperrors.NewAppError(http.StatusConflict,
				fmt.Sprintf("period %s overlaps an existing period", period.Code), apperrors.ErrDuplicate)
		}
		return internalError("failed to save period "+period.Code, err)
	}
	return nil
}

// UpdatePeriodStatus sets status and closure metadata.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, closedAt *time.Time, closedBy *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $2, closed_at = $3, closed_by = $4, last_updated_by = $5, last_updated_at = $6
		WHERE period_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, status, closedAt, closedBy, updatedBy, updatedAt)
	if err != nil {
		return internalError("failed to update period status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + periodID + " not found")
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE organization_id = $1 AND period_id = $2;`
	p, err := scanPeriod(r.Pool.QueryRow(ctx, query, organizationID, periodID))
	if err != nil {
		return nil, notFoundOr(err, "period "+periodID+" not found", "failed to find period")
	}
	return &p, nil
}

func (r *PgxPeriodRepository) FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	return findPeriodCovering(ctx, r.Pool, organizationID, date)
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE organization_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list periods", err)
	}
	periods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountingPeriod, error) {
		return scanPeriod(row)
	})
	if err != nil {
		return nil, internalError("failed to scan periods", err)
	}
	return periods, nil
}

// findPeriodCovering returns the period whose inclusive range contains date, whatever its status.
func findPeriodCovering(ctx context.Context, q querier, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1 AND start_date <= $2 AND end_date >= $2
		LIMIT 1;
	`
	day := domain.DateOnly(date)
	p, err := scanPeriod(q.QueryRow(ctx, query, organizationID, day))
	if err != nil {
		return nil, notFoundOr(err, "no period covers "+day.Format(time.DateOnly), "failed to find covering period")
	}
	return &p, nil
}
