package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournal retrieves a journal with its lines in the actor's organization.
	GetJournal(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals newest first.
	ListJournals(ctx context.Context, actor domain.Actor, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines draft construction and the one-shot posting wrapper
type JournalWriterSvc interface {
	// CreateDraft builds and stores a DRAFT journal.
	CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest) (*domain.Journal, error)

	// UpdateDraft replaces header and lines of an unlocked journal.
	UpdateDraft(ctx context.Context, actor domain.Actor, journalID string, req dto.UpdateJournalRequest) (*domain.Journal, error)

	// Validate dry-runs the validation pipeline against a stored journal. It has no side effects.
	Validate(ctx context.Context, actor domain.Actor, journalID string) error

	// PostJournal creates and posts a journal in one unit of work.
	// A previously used idempotencyKey returns the journal it produced.
	PostJournal(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest, idempotencyKey string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

// JournalWorkflowSvc is the status state machine. Every method checks the
// transition table and the permission bound to the target state.
type JournalWorkflowSvc interface {
	Submit(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)
	Approve(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)
	Reject(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.Journal, error)
	ReturnToDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)

	// Post validates and posts. The result is the posted journal.
	Post(ctx context.Context, actor domain.Actor, journalID, idempotencyKey string) (*domain.Journal, error)

	// Reverse posts the equal-and-opposite journal and returns it.
	Reverse(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)

	// Transition dispatches to the method for target.
	Transition(ctx context.Context, actor domain.Actor, journalID string, target domain.JournalStatus, opts TransitionOptions) (*domain.Journal, error)
}

// TransitionOptions carries the extra inputs some targets need.
type TransitionOptions struct {
	Reason         string
	IdempotencyKey string
}

// JournalTypeSvc manages voucher type definitions
type JournalTypeSvc interface {
	ListJournalTypes(ctx context.Context, actor domain.Actor) ([]domain.JournalType, error)

	// ApplyJournalTypes upserts definitions by code.
	ApplyJournalTypes(ctx context.Context, actor domain.Actor, types []domain.JournalType) ([]domain.JournalType, error)
}
