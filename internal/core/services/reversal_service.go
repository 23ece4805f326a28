package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/google/uuid"
)

// reversalEngine undoes posted journals through the posting transactor.
type reversalEngine struct {
	BaseService
	txManager portsrepo.TransactionManager
	posting   *postingTransactor
	effects   sideEffects
}

// NewReversalEngine creates the reversal engine on top of posting.
func NewReversalEngine(posting *postingTransactor, opts ...ServiceOption) portssvc.ReversalEngineSvc {
	s := &reversalEngine{
		BaseService: newBase(opts),
		txManager:   posting.txManager,
		posting:     posting,
	}
	s.effects = sideEffects{base: &s.BaseService, audit: posting.effects.audit, publisher: posting.effects.publisher, cache: posting.effects.cache}
	return s
}

var _ portssvc.ReversalEngineSvc = (*reversalEngine)(nil)

// Reverse posts a journal dated today with every line's sides swapped, then marks
// the original REVERSED. It returns the reversal journal.
func (s *reversalEngine) Reverse(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalReverse); err != nil {
		return nil, err
	}

	var original, reversal *domain.Journal
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		orig, err := tx.LockJournal(ctx, actor.OrganizationID, journalID)
		if err != nil {
			return err
		}
		if err := checkReversible(orig); err != nil {
			return err
		}

		rev := s.buildReversal(orig, actor)
		if err := tx.InsertJournal(ctx, rev); err != nil {
			return fmt.Errorf("failed to insert reversal journal: %w", err)
		}
		if _, err := s.posting.postInTx(ctx, tx, actor, &rev, ""); err != nil {
			return err
		}

		now := s.Now()
		if err := tx.MarkJournalReversed(ctx, orig.JournalID, rev.JournalID, actor.UserID, now); err != nil {
			return err
		}
		orig.Status = domain.StatusReversed
		orig.IsLocked = true
		orig.ReversedByID = &rev.JournalID
		orig.LastUpdatedAt = now
		orig.LastUpdatedBy = actor.UserID

		original, reversal = orig, &rev
		return nil
	})
	if err != nil {
		return nil, s.posting.postingFailed(ctx, journalID, err)
	}

	s.LogInfo(ctx, "Journal reversed",
		slog.String("journal_id", original.JournalID),
		slog.String("reversal_id", reversal.JournalID),
		slog.String("reversal_number", reversal.JournalNumber))
	s.effects.invalidateBalances(ctx, original.OrganizationID)
	s.effects.record(ctx, actor, domain.SubjectJournal, original.JournalID, domain.AuditJournalReversed, map[string]any{
		"reversed_by":     reversal.JournalID,
		"reversal_number": reversal.JournalNumber,
	})
	s.effects.record(ctx, actor, domain.SubjectJournal, reversal.JournalID, domain.AuditReversalCreated, map[string]any{
		"reversal_of":     original.JournalID,
		"original_number": original.JournalNumber,
	})
	s.effects.notify(ctx, actor, original, domain.StatusPosted, "")
	return reversal, nil
}

func checkReversible(j *domain.Journal) error {
	if j.IsReversal {
		return apperrors.NewLedgerError(apperrors.KindReversalNotAllowed, "a reversal journal cannot itself be reversed").ForJournal(j.JournalID)
	}
	if j.Status == domain.StatusReversed || j.ReversedByID != nil {
		return apperrors.NewLedgerError(apperrors.KindReversalAlreadyExists, "journal %s is already reversed", j.JournalNumber).ForJournal(j.JournalID)
	}
	if j.Status != domain.StatusPosted {
		return apperrors.NewLedgerError(apperrors.KindReversalNotAllowed, "only posted journals can be reversed, journal is %s", j.Status).ForJournal(j.JournalID)
	}
	return nil
}

// buildReversal mirrors orig: same line order, debits and credits swapped on both currencies.
func (s *reversalEngine) buildReversal(orig *domain.Journal, actor domain.Actor) domain.Journal {
	now := s.Now()
	rev := domain.Journal{
		JournalID:      uuid.NewString(),
		OrganizationID: orig.OrganizationID,
		JournalTypeID:  orig.JournalTypeID,
		JournalDate:    domain.DateOnly(now),
		CurrencyCode:   orig.CurrencyCode,
		ExchangeRate:   orig.ExchangeRate,
		Description:    fmt.Sprintf("Reversal of %s", orig.JournalNumber),
		Reference:      domain.ReversalReference(orig.JournalNumber),
		Status:         domain.StatusDraft,
		IsReversal:     true,
		ReversalOfID:   &orig.JournalID,
		SourceModule:   orig.SourceModule,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	for _, l := range orig.SortedLines() {
		line := l.Swapped()
		line.LineID = uuid.NewString()
		line.JournalID = rev.JournalID
		rev.Lines = append(rev.Lines, line)
	}
	rev.RecomputeTotals()
	return rev
}
