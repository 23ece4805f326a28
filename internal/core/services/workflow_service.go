package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
)

// workflowService is the status state machine. Entering POSTED and REVERSED
// delegate to the posting transactor and reversal engine; everything else is metadata.
type workflowService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	posting     portssvc.PostingTransactorSvc
	reversal    portssvc.ReversalEngineSvc
	effects     sideEffects
}

// WorkflowDeps are the collaborators of the state machine.
type WorkflowDeps struct {
	JournalRepo portsrepo.JournalRepositoryFacade
	Posting     portssvc.PostingTransactorSvc
	Reversal    portssvc.ReversalEngineSvc
	Audit       portssvc.AuditLogger
	Publisher   portssvc.EventPublisher
}

// NewWorkflowService creates the journal state machine.
func NewWorkflowService(deps WorkflowDeps, opts ...ServiceOption) portssvc.JournalWorkflowSvc {
	s := &workflowService{
		BaseService: newBase(opts),
		journalRepo: deps.JournalRepo,
		posting:     deps.Posting,
		reversal:    deps.Reversal,
	}
	s.effects = sideEffects{base: &s.BaseService, audit: deps.Audit, publisher: deps.Publisher}
	return s
}

var _ portssvc.JournalWorkflowSvc = (*workflowService)(nil)

func (s *workflowService) Submit(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return s.move(ctx, actor, journalID, domain.StatusAwaitingApproval, "")
}

func (s *workflowService) Approve(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return s.move(ctx, actor, journalID, domain.StatusApproved, "")
}

func (s *workflowService) Reject(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.Journal, error) {
	return s.move(ctx, actor, journalID, domain.StatusRejected, reason)
}

func (s *workflowService) ReturnToDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return s.move(ctx, actor, journalID, domain.StatusDraft, "")
}

func (s *workflowService) Post(ctx context.Context, actor domain.Actor, journalID, idempotencyKey string) (*domain.Journal, error) {
	return s.posting.Post(ctx, actor, journalID, idempotencyKey)
}

func (s *workflowService) Reverse(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return s.reversal.Reverse(ctx, actor, journalID)
}

// Transition dispatches on target. Unknown targets are invalid transitions.
func (s *workflowService) Transition(ctx context.Context, actor domain.Actor, journalID string, target domain.JournalStatus, opts portssvc.TransitionOptions) (*domain.Journal, error) {
	switch target {
	case domain.StatusPosted:
		return s.Post(ctx, actor, journalID, opts.IdempotencyKey)
	case domain.StatusReversed:
		return s.Reverse(ctx, actor, journalID)
	case domain.StatusRejected:
		return s.Reject(ctx, actor, journalID, opts.Reason)
	case domain.StatusDraft, domain.StatusAwaitingApproval, domain.StatusApproved:
		return s.move(ctx, actor, journalID, target, opts.Reason)
	}
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	j, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return nil, err
	}
	return nil, apperrors.NewInvalidTransitionError(j.JournalID, string(j.Status), string(target))
}

// move applies a metadata-only transition guarded by the current status.
func (s *workflowService) move(ctx context.Context, actor domain.Actor, journalID string, target domain.JournalStatus, reason string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionForStatus(target)); err != nil {
		return nil, err
	}

	j, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(j.Status, target) {
		err := apperrors.NewInvalidTransitionError(j.JournalID, string(j.Status), string(target))
		s.LogWarn(ctx, err, "Rejected status transition", slog.String("journal_id", journalID))
		return nil, err
	}
	if j.IsLocked {
		return nil, apperrors.NewLedgerError(apperrors.KindJournalLocked, "journal is locked").ForJournal(j.JournalID)
	}
	if target == domain.StatusRejected && reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	from := j.Status
	change := portsrepo.StatusChange{
		JournalID:       j.JournalID,
		From:            from,
		To:              target,
		UserID:          actor.UserID,
		At:              s.Now(),
		RejectionReason: reason,
	}
	if err := s.journalRepo.UpdateJournalStatus(ctx, change); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, s.lostRace(ctx, actor, journalID, target)
		}
		s.LogError(ctx, err, "Failed to update journal status", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal status: %w", err)
	}

	updated, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal status changed",
		slog.String("journal_id", journalID),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	details := map[string]any{"from": string(from), "to": string(target)}
	if reason != "" {
		details["reason"] = reason
	}
	s.effects.record(ctx, actor, domain.SubjectJournal, journalID, domain.AuditJournalTransition, details)
	s.effects.notify(ctx, actor, updated, from, reason)
	return updated, nil
}

// lostRace reports the status another request moved the journal to.
func (s *workflowService) lostRace(ctx context.Context, actor domain.Actor, journalID string, target domain.JournalStatus) error {
	current, err := s.journalRepo.FindJournalByID(ctx, actor.OrganizationID, journalID)
	if err != nil {
		return err
	}
	if current.IsLocked && domain.CanTransition(current.Status, target) {
		return apperrors.NewLedgerError(apperrors.KindJournalLocked, "journal is locked").ForJournal(journalID)
	}
	return apperrors.NewInvalidTransitionError(journalID, string(current.Status), string(target))
}
