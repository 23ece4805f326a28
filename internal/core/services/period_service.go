package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
)

// periodCoverer is the one lookup the gate needs; both repositories and an open LedgerTx provide it.
type periodCoverer interface {
	FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)
}

// requireOpenPeriod returns the open period covering date or a PeriodClosed error.
func requireOpenPeriod(ctx context.Context, src periodCoverer, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := src.FindPeriodCovering(ctx, organizationID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewLedgerError(apperrors.KindPeriodClosed,
				"no accounting period covers %s", date.Format(time.DateOnly))
		}
		return nil, fmt.Errorf("failed to look up accounting period: %w", err)
	}
	if !period.IsOpen() {
		return nil, apperrors.NewLedgerError(apperrors.KindPeriodClosed,
			"period %s covering %s is closed", period.Code, date.Format(time.DateOnly))
	}
	return period, nil
}

// periodService is the period gate.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	effects    sideEffects
}

// NewPeriodService creates the period gate.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, audit portssvc.AuditLogger, opts ...ServiceOption) portssvc.PeriodGateSvc {
	s := &periodService{BaseService: newBase(opts), periodRepo: periodRepo}
	s.effects = sideEffects{base: &s.BaseService, audit: audit}
	return s
}

var _ portssvc.PeriodGateSvc = (*periodService)(nil)

// IsOpen reports whether date falls inside an open period.
func (s *periodService) IsOpen(ctx context.Context, organizationID string, date time.Time) (bool, error) {
	_, err := requireOpenPeriod(ctx, s.periodRepo, organizationID, date)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrPeriodClosed) {
		return false, nil
	}
	return false, err
}

// GetCurrent returns the period covering today, or nil when none exists.
func (s *periodService) GetCurrent(ctx context.Context, organizationID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodCovering(ctx, organizationID, s.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up current period: %w", err)
	}
	return period, nil
}

// ListPeriods lists the actor's organization periods.
func (s *periodService) ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.AccountingPeriod, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ClosePeriod stops further postings into the period.
func (s *periodService) ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error) {
	if err := s.Authorize(ctx, actor, domain.PermPeriodClose); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, actor.OrganizationID, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen() {
		return nil, apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("period %s is already closed", period.Code), apperrors.ErrConflict)
	}

	now := s.Now()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, period.PeriodID, domain.PeriodClosed, &now, &actor.UserID, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to close period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to close period: %w", err)
	}
	period.Status = domain.PeriodClosed
	period.ClosedAt = &now
	period.ClosedBy = &actor.UserID
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor.UserID

	s.LogInfo(ctx, "Period closed", slog.String("period_id", periodID), slog.String("code", period.Code))
	s.effects.record(ctx, actor, domain.SubjectPeriod, period.PeriodID, domain.AuditPeriodClosed, map[string]any{"code": period.Code})
	return period, nil
}

// ReopenPeriod flips a closed period back to open and clears its closure metadata.
func (s *periodService) ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error) {
	if err := s.Authorize(ctx, actor, domain.PermPeriodReopen); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, actor.OrganizationID, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsOpen() {
		return nil, apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("period %s is already open", period.Code), apperrors.ErrConflict)
	}

	details := map[string]any{"code": period.Code}
	if period.ClosedBy != nil {
		details["previously_closed_by"] = *period.ClosedBy
	}

	now := s.Now()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, period.PeriodID, domain.PeriodOpen, nil, nil, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to reopen period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to reopen period: %w", err)
	}
	period.Status = domain.PeriodOpen
	period.ClosedAt = nil
	period.ClosedBy = nil
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor.UserID

	s.LogInfo(ctx, "Period reopened", slog.String("period_id", periodID), slog.String("code", period.Code))
	s.effects.record(ctx, actor, domain.SubjectPeriod, period.PeriodID, domain.AuditPeriodReopened, details)
	return period, nil
}
