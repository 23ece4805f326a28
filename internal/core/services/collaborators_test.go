package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock AuditLogger ---
type MockAuditLogger struct {
	mock.Mock
}

var _ portssvc.AuditLogger = (*MockAuditLogger)(nil)

func (m *MockAuditLogger) Record(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- Mock BalanceCache ---
type MockBalanceCache struct {
	mock.Mock
}

var _ portssvc.BalanceCache = (*MockBalanceCache)(nil)

func (m *MockBalanceCache) Get(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, dest any) (bool, error) {
	args := m.Called(ctx, organizationID, kind, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockBalanceCache) Set(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, value any) error {
	args := m.Called(ctx, organizationID, kind, key, value)
	return args.Error(0)
}

func (m *MockBalanceCache) Invalidate(ctx context.Context, organizationID string, kind portssvc.CacheKind) error {
	args := m.Called(ctx, organizationID, kind)
	return args.Error(0)
}

func TestAuditFailureDoesNotBlockPosting(t *testing.T) {
	audit := new(MockAuditLogger)
	audit.On("Record", mock.Anything, mock.AnythingOfType("domain.AuditEvent")).Return(errors.New("audit store down"))
	f := newLedgerFixture(t, withAudit(audit))

	j, err := f.svc.Journal.PostJournal(context.Background(), f.accountant, cashSale("99"), "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, j.Status)
	assert.True(t, f.balance(t, accCash).Equal(amt("99")))
	audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.Action == domain.AuditJournalPosted && e.SubjectID == j.JournalID && e.ActorID == "u-accountant"
	}))
}

func TestAuditFailureDoesNotBlockReversal(t *testing.T) {
	audit := new(MockAuditLogger)
	audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit store down"))
	f := newLedgerFixture(t, withAudit(audit))
	j := f.posted(t, cashSale("10"))

	_, err := f.svc.Workflow.Reverse(context.Background(), f.admin, j.JournalID)

	require.NoError(t, err)
	assert.True(t, f.balance(t, accCash).IsZero())
}

func TestPostingInvalidatesBalanceCaches(t *testing.T) {
	cache := new(MockBalanceCache)
	cache.On("Invalidate", mock.Anything, orgID, portssvc.CacheAccountBalance).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, orgID, portssvc.CacheTrialBalance).Return(nil).Once()
	f := newLedgerFixture(t, withCache(cache))

	f.posted(t, cashSale("10"))

	cache.AssertExpectations(t)
}

func TestCacheInvalidationFailureIsNotFatal(t *testing.T) {
	cache := new(MockBalanceCache)
	cache.On("Invalidate", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	f := newLedgerFixture(t, withCache(cache))

	j, err := f.svc.Journal.PostJournal(context.Background(), f.accountant, cashSale("10"), "")

	require.NoError(t, err)
	assert.True(t, j.IsLocked)
}
