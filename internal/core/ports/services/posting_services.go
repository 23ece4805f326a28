package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// CurrencyResolverSvc converts between a transaction currency and the functional currency.
type CurrencyResolverSvc interface {
	Resolve(ctx context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error)
}

// PeriodGateSvc answers whether dates are postable and manages closure.
type PeriodGateSvc interface {
	IsOpen(ctx context.Context, organizationID string, date time.Time) (bool, error)
	GetCurrent(ctx context.Context, organizationID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.AccountingPeriod, error)
	ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error)
	ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.AccountingPeriod, error)
}

// ValidationResult carries what the pipeline loaded so posting does not read it twice.
type ValidationResult struct {
	Period      *domain.AccountingPeriod
	JournalType *domain.JournalType
	Accounts    map[string]domain.Account
	// Existing is set when the idempotency key already produced a journal.
	Existing *domain.IdempotencyRecord
}

// ValidationPipelineSvc runs the ordered pre-posting checks.
type ValidationPipelineSvc interface {
	// Validate returns the first failing check's error. If the idempotency key was
	// already used the result carries the existing record and no error.
	Validate(ctx context.Context, src repositories.ValidationSource, journal *domain.Journal, idempotencyKey string) (*ValidationResult, error)
}

// PostingTransactorSvc is the atomic posting core.
type PostingTransactorSvc interface {
	// Post posts a stored journal.
	Post(ctx context.Context, actor domain.Actor, journalID, idempotencyKey string) (*domain.Journal, error)

	// PostNew inserts journal and posts it in the same unit of work.
	PostNew(ctx context.Context, actor domain.Actor, journal domain.Journal, idempotencyKey string) (*domain.Journal, error)
}

// ReversalEngineSvc undoes a posted journal with a new opposite one.
type ReversalEngineSvc interface {
	Reverse(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)
}

// ExchangeRateSvcFacade combines rate maintenance with resolution
type ExchangeRateSvcFacade interface {
	CurrencyResolverSvc
	CreateExchangeRate(ctx context.Context, actor domain.Actor, rate domain.ExchangeRate) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, actor domain.Actor) ([]domain.ExchangeRate, error)
}

// LedgerSvc serves read models over posted history.
type LedgerSvc interface {
	GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string) (*domain.AccountBalance, error)
	ListLedgerEntries(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error)
	VerifyAccountChain(ctx context.Context, actor domain.Actor, accountID string) (*domain.ChainVerification, error)
	VerifyOrganization(ctx context.Context, actor domain.Actor) ([]domain.ChainVerification, error)
	TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error)
}
