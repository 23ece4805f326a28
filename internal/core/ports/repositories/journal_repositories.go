package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// JournalTypeReader defines read operations for journal types
type JournalTypeReader interface {
	FindJournalTypeByID(ctx context.Context, journalTypeID string) (*domain.JournalType, error)
	FindJournalTypeByCode(ctx context.Context, organizationID, code string) (*domain.JournalType, error)
	ListJournalTypes(ctx context.Context, organizationID string) ([]domain.JournalType, error)
}

// JournalTypeWriter defines write operations for journal types
type JournalTypeWriter interface {
	// UpsertJournalType inserts or replaces the type identified by (organization, code).
	UpsertJournalType(ctx context.Context, journalType domain.JournalType) error
}

// JournalTypeRepositoryFacade combines all journal type repository interfaces
type JournalTypeRepositoryFacade interface {
	JournalTypeReader
	JournalTypeWriter
}

// ListJournalsParams filters and pages a journal listing.
type ListJournalsParams struct {
	Status    *domain.JournalStatus
	Limit     int
	NextToken *string
}

// StatusChange is an optimistic metadata transition.
type StatusChange struct {
	JournalID       string
	From            domain.JournalStatus
	To              domain.JournalStatus
	UserID          string
	At              time.Time
	RejectionReason string
}

// Apply sets the status and the approval or rejection metadata that goes with it.
func (c StatusChange) Apply(j *domain.Journal) {
	j.Status = c.To
	j.LastUpdatedAt = c.At
	j.LastUpdatedBy = c.UserID
	switch c.To {
	case domain.StatusApproved:
		at, by := c.At, c.UserID
		j.ApprovedAt, j.ApprovedBy = &at, &by
	case domain.StatusRejected:
		j.RejectionReason = c.RejectionReason
		j.ApprovedAt, j.ApprovedBy = nil, nil
	case domain.StatusDraft:
		j.ApprovedAt, j.ApprovedBy = nil, nil
	case domain.StatusAwaitingApproval:
		j.RejectionReason = ""
	}
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal and its lines.
	FindJournalByID(ctx context.Context, organizationID, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals (without lines) ordered newest first.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, organizationID string, params ListJournalsParams) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveDraft inserts a new unposted journal with its lines.
	SaveDraft(ctx context.Context, journal domain.Journal) error

	// ReplaceDraft rewrites header and lines of an unlocked journal still in journal.Status.
	// A journal that was locked or moved meanwhile fails with apperrors.ErrJournalLocked.
	ReplaceDraft(ctx context.Context, journal domain.Journal) error

	// UpdateJournalStatus applies change only while the journal is unlocked and still in change.From.
	// A lost race fails with apperrors.ErrConflict.
	UpdateJournalStatus(ctx context.Context, change StatusChange) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
