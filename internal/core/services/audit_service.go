package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/google/uuid"
)

// repositoryAuditLogger persists audit events through the audit repository.
type repositoryAuditLogger struct {
	BaseService
	repo portsrepo.AuditRepository
}

// NewRepositoryAuditLogger creates an AuditLogger backed by the audit_events store.
func NewRepositoryAuditLogger(repo portsrepo.AuditRepository) portssvc.AuditLogger {
	return &repositoryAuditLogger{repo: repo}
}

func (l *repositoryAuditLogger) Record(ctx context.Context, event domain.AuditEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := l.repo.SaveAuditEvent(ctx, event); err != nil {
		return err
	}
	l.LogDebug(ctx, "Audit event recorded",
		slog.String("action", string(event.Action)),
		slog.String("subject_id", event.SubjectID))
	return nil
}

// sideEffects records audit events and notifications after a successful change.
// Neither may fail the financial operation that triggered them.
type sideEffects struct {
	base      *BaseService
	audit     portssvc.AuditLogger
	publisher portssvc.EventPublisher
	cache     portssvc.BalanceCache
}

func (s *sideEffects) record(ctx context.Context, actor domain.Actor, subjectType, subjectID string, action domain.AuditAction, details map[string]any) {
	if s.audit == nil {
		return
	}
	event := domain.AuditEvent{
		EventID:        uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		ActorID:        actor.UserID,
		SubjectType:    subjectType,
		SubjectID:      subjectID,
		Action:         action,
		Details:        details,
		Timestamp:      s.base.Now(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.base.LogError(ctx, err, "Failed to record audit event",
			slog.String("action", string(action)),
			slog.String("subject_id", subjectID))
	}
}

func (s *sideEffects) notify(ctx context.Context, actor domain.Actor, j *domain.Journal, from domain.JournalStatus, reason string) {
	if s.publisher == nil {
		return
	}
	eventType, ok := domain.EventTypeForStatus(j.Status)
	if !ok {
		return
	}
	event := domain.JournalEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		OrganizationID: j.OrganizationID,
		JournalID:      j.JournalID,
		JournalNumber:  j.JournalNumber,
		FromStatus:     from,
		ToStatus:       j.Status,
		ActorID:        actor.UserID,
		Reason:         reason,
		OccurredAt:     s.base.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.base.LogError(ctx, err, "Failed to publish journal event",
			slog.String("event_type", string(eventType)),
			slog.String("journal_id", j.JournalID))
	}
}

// invalidateBalances drops cached read models that depend on account balances.
func (s *sideEffects) invalidateBalances(ctx context.Context, organizationID string) {
	if s.cache == nil {
		return
	}
	for _, kind := range []portssvc.CacheKind{portssvc.CacheAccountBalance, portssvc.CacheTrialBalance} {
		if err := s.cache.Invalidate(ctx, organizationID, kind); err != nil {
			s.base.LogError(ctx, err, "Failed to invalidate balance cache",
				slog.String("organization_id", organizationID),
				slog.String("kind", string(kind)))
		}
	}
}
