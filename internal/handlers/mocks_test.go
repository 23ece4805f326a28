package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournal(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, actor, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, actor domain.Actor, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest) (*domain.Journal, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) UpdateDraft(ctx context.Context, actor domain.Actor, journalID string, req dto.UpdateJournalRequest) (*domain.Journal, error) {
	args := m.Called(ctx, actor, journalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) Validate(ctx context.Context, actor domain.Actor, journalID string) error {
	return m.Called(ctx, actor, journalID).Error(0)
}

func (m *MockJournalService) PostJournal(ctx context.Context, actor domain.Actor, req dto.CreateJournalRequest, idempotencyKey string) (*domain.Journal, error) {
	args := m.Called(ctx, actor, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) journal(args mock.Arguments) (*domain.Journal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockWorkflowService) Submit(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID))
}

func (m *MockWorkflowService) Approve(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID))
}

func (m *MockWorkflowService) Reject(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID, reason))
}

func (m *MockWorkflowService) ReturnToDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID))
}

func (m *MockWorkflowService) Post(ctx context.Context, actor domain.Actor, journalID, idempotencyKey string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID, idempotencyKey))
}

func (m *MockWorkflowService) Reverse(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID))
}

func (m *MockWorkflowService) Transition(ctx context.Context, actor domain.Actor, journalID string, target domain.JournalStatus, opts portssvc.TransitionOptions) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, actor, journalID, target, opts))
}

var _ portssvc.JournalWorkflowSvc = (*MockWorkflowService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.AccountingPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) IsOpen(ctx context.Context, organizationID string, date time.Time) (bool, error) {
	args := m.Called(ctx, organizationID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodService) GetCurrent(ctx context.Context, organizationID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, organizationID))
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, actor, periodID))
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, actor, periodID))
}

var _ portssvc.PeriodGateSvc = (*MockPeriodService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) Resolve(ctx context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, fromCurrency, toCurrency, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, actor domain.Actor, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, actor, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ListExchangeRates(ctx context.Context, actor domain.Actor) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, actor, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockLedgerService) ListLedgerEntries(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	args := m.Called(ctx, actor, accountID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.GeneralLedgerEntry), next, args.Error(2)
}

func (m *MockLedgerService) VerifyAccountChain(ctx context.Context, actor domain.Actor, accountID string) (*domain.ChainVerification, error) {
	args := m.Called(ctx, actor, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainVerification), args.Error(1)
}

func (m *MockLedgerService) VerifyOrganization(ctx context.Context, actor domain.Actor) ([]domain.ChainVerification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChainVerification), args.Error(1)
}

func (m *MockLedgerService) TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock JournalTypeService ---
type MockJournalTypeService struct {
	mock.Mock
}

func (m *MockJournalTypeService) ListJournalTypes(ctx context.Context, actor domain.Actor) ([]domain.JournalType, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalType), args.Error(1)
}

func (m *MockJournalTypeService) ApplyJournalTypes(ctx context.Context, actor domain.Actor, types []domain.JournalType) ([]domain.JournalType, error) {
	args := m.Called(ctx, actor, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalType), args.Error(1)
}

var _ portssvc.JournalTypeSvc = (*MockJournalTypeService)(nil)
