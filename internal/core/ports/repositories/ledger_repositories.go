package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// LedgerReader defines read operations for general ledger entries
type LedgerReader interface {
	// ListLedgerEntries pages an account's entries newest first.
	ListLedgerEntries(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error)

	// ListAccountChain returns every entry of an account in creation order.
	ListAccountChain(ctx context.Context, organizationID, accountID string) ([]domain.GeneralLedgerEntry, error)

	// FindEntriesByJournalID returns a journal's entries in line order.
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.GeneralLedgerEntry, error)

	CountLedgerEntries(ctx context.Context, organizationID, accountID string) (int64, error)
}

// IdempotencyReader looks up previously used posting keys.
type IdempotencyReader interface {
	FindIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.IdempotencyRecord, error)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error
	ListAuditEvents(ctx context.Context, organizationID, subjectType, subjectID string) ([]domain.AuditEvent, error)
}
