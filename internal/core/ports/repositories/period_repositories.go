package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodCovering returns the period whose range contains date, whatever its status.
	FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)

	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus sets status and closure metadata; nil closedAt/closedBy clear them.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, closedAt *time.Time, closedBy *string, updatedBy string, updatedAt time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
