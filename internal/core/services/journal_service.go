package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/google/uuid"
)

// journalService builds drafts and serves journal reads.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	orgRepo     portsrepo.OrganizationReader
	periodRepo  portsrepo.PeriodReader
	source      portsrepo.ValidationSource
	resolver    portssvc.CurrencyResolverSvc
	validator   portssvc.ValidationPipelineSvc
	posting     portssvc.PostingTransactorSvc
	effects     sideEffects
}

// JournalDeps are the collaborators of the journal service.
type JournalDeps struct {
	Repos     portsrepo.RepositoryProvider
	Resolver  portssvc.CurrencyResolverSvc
	Validator portssvc.ValidationPipelineSvc
	Posting   portssvc.PostingTransactorSvc
	Audit     portssvc.AuditLogger
}

// NewJournalService creates a new JournalService.
func NewJournalService(deps JournalDeps, opts ...ServiceOption) portssvc.JournalSvcFacade {
	s := &journalService{
		BaseService: newBase(opts),
		journalRepo: deps.Repos.JournalRepo,
		orgRepo:     deps.Repos.OrganizationRepo,
		periodRepo:  deps.Repos.PeriodRepo,
		source:      NewValidationSource(deps.Repos),
		resolver:    deps.Resolver,
		validator:   deps.Validator,
		posting:     deps.Posting,
	}
	s.effects = sideEffects{base: &s.BaseService, audit: deps.Audit}
	return s
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateDraft builds a DRAFT journal from the request and stores it.
func (s *journalService) CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalEdit); err != nil {
		return nil, err
	}
	j, err := s.buildJournal(ctx, actor, uuid.NewString(), req)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveDraft(ctx, *j); err != nil {
		s.LogError(ctx, err, "Failed to save draft journal", slog.String("journal_id", j.JournalID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}
	s.LogInfo(ctx, "Draft journal created", slog.String("journal_id", j.JournalID), slog.Int("lines", len(j.Lines)))
	s.effects.record(ctx, actor, domain.SubjectJournal, j.JournalID, domain.AuditJournalCreated, map[string]any{
		"total_debit": j.TotalDebit.String(),
		"currency":    j.CurrencyCode,
	})
	return j, nil
}

// UpdateDraft replaces header and lines while the journal is still editable.
func (s *journalService) UpdateDraft(ctx context.Context, actor domain.Actor, journalID string, req dto.UpdateJournalRequest) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalEdit); err != nil {
		return nil, err
	}
	existing, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return nil, err
	}
	if !existing.IsEditable() {
		return nil, apperrors.NewLedgerError(apperrors.KindJournalLocked, "journal in status %s cannot be edited", existing.Status).ForJournal(journalID)
	}

	j, err := s.buildJournal(ctx, actor, journalID, req)
	if err != nil {
		return nil, err
	}
	j.Status = existing.Status
	j.CreatedAt = existing.CreatedAt
	j.CreatedBy = existing.CreatedBy
	j.ApprovedBy = existing.ApprovedBy
	j.ApprovedAt = existing.ApprovedAt

	if err := s.journalRepo.ReplaceDraft(ctx, *j); err != nil {
		if errors.Is(err, apperrors.ErrJournalLocked) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update draft journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}
	s.LogInfo(ctx, "Journal updated", slog.String("journal_id", journalID))
	s.effects.record(ctx, actor, domain.SubjectJournal, journalID, domain.AuditJournalUpdated, map[string]any{
		"total_debit": j.TotalDebit.String(),
	})
	return j, nil
}

// GetJournal retrieves a journal in the actor's organization.
func (s *journalService) GetJournal(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	j, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Journal retrieved", slog.String("journal_id", journalID))
	return j, nil
}

// ListJournals pages the organization's journals.
func (s *journalService) ListJournals(ctx context.Context, actor domain.Actor, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	journals, next, err := s.journalRepo.ListJournals(ctx, actor.OrganizationID, portsrepo.ListJournalsParams{
		Status:    params.Status,
		Limit:     pagination.NormalizeLimit(params.Limit),
		NextToken: params.NextToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	resp := dto.ToListJournalsResponse(journals, next)
	return &resp, nil
}

// Validate dry-runs the pipeline. The idempotency step is skipped.
func (s *journalService) Validate(ctx context.Context, actor domain.Actor, journalID string) error {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return err
	}
	j, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return err
	}
	_, err = s.validator.Validate(ctx, s.source, j, "")
	return err
}

// PostJournal builds a journal from req and posts it in one unit of work.
func (s *journalService) PostJournal(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest, idempotencyKey string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalPost); err != nil {
		return nil, err
	}
	j, err := s.buildJournal(ctx, actor, uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	return s.posting.PostNew(ctx, actor, *j, idempotencyKey)
}

// buildJournal resolves the rate, numbers the lines and derives functional amounts.
func (s *journalService) buildJournal(ctx context.Context, actor domain.Actor, journalID string, req dto.CreateJournalRequest) (*domain.Journal, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	date := domain.DateOnly(req.JournalDate)
	rate, err := s.resolver.Resolve(ctx, org.OrganizationID, currency, org.FunctionalCurrency, date)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	j := &domain.Journal{
		JournalID:      journalID,
		OrganizationID: org.OrganizationID,
		JournalTypeID:  req.JournalTypeID,
		JournalDate:    date,
		CurrencyCode:   currency,
		ExchangeRate:   rate,
		Description:    req.Description,
		Reference:      strings.TrimSpace(req.Reference),
		Status:         domain.StatusDraft,
		SourceModule:   domain.SourceModuleManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	for i, l := range req.Lines {
		line := domain.JournalLine{
			LineID:       uuid.NewString(),
			JournalID:    journalID,
			LineNumber:   i + 1,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			DepartmentID: l.DepartmentID,
			ProjectID:    l.ProjectID,
			CostCenterID: l.CostCenterID,
			TaxCode:      l.TaxCode,
			TaxAmount:    l.TaxAmount,
		}
		line.ApplyRate(rate)
		j.Lines = append(j.Lines, line)
	}
	j.RecomputeTotals()
	balanceFunctionalRounding(j)

	period, err := s.periodRepo.FindPeriodCovering(ctx, org.OrganizationID, date)
	switch {
	case err == nil:
		j.PeriodID = &period.PeriodID
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to look up accounting period: %w", err)
	}
	return j, nil
}

// balanceFunctionalRounding moves the per-line rounding residue of a balanced
// journal onto the last line of the lighter functional side.
func balanceFunctionalRounding(j *domain.Journal) {
	if !j.TotalDebit.Equal(j.TotalCredit) {
		return
	}
	fd, fc := domain.SumFunctional(j.Lines)
	diff := fd.Sub(fc)
	if diff.IsZero() {
		return
	}
	for i := len(j.Lines) - 1; i >= 0; i-- {
		l := &j.Lines[i]
		if diff.IsPositive() && l.CreditAmount.IsPositive() {
			l.FunctionalCredit = l.FunctionalCredit.Add(diff)
			return
		}
		if diff.IsNegative() && l.DebitAmount.IsPositive() {
			l.FunctionalDebit = l.FunctionalDebit.Sub(diff)
			return
		}
	}
}
