package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// AuditLogger receives one event per successful state change.
// Callers treat its errors as non-fatal.
type AuditLogger interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// EventPublisher delivers journal notifications to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.JournalEvent) error
	Close() error
}

// CacheKind partitions cached read models for invalidation.
type CacheKind string

const (
	CacheAccountBalance CacheKind = "account_balance"
	CacheTrialBalance   CacheKind = "trial_balance"
)

// BalanceCache is an explicit read-model cache keyed by organization and kind.
type BalanceCache interface {
	// Get decodes a cached value into dest and reports whether it was present.
	Get(ctx context.Context, organizationID string, kind CacheKind, key string, dest any) (bool, error)
	Set(ctx context.Context, organizationID string, kind CacheKind, key string, value any) error
	// Invalidate drops every entry of kind for the organization.
	Invalidate(ctx context.Context, organizationID string, kind CacheKind) error
}
