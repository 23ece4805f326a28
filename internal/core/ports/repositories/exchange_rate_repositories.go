package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rates
type ExchangeRateReader interface {
	// FindLatestRate returns the active rate for the ordered pair with the greatest rate_date <= asOf.
	FindLatestRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error)

	ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rates
type ExchangeRateWriter interface {
	// SaveExchangeRate stores rate, or updates the row already held for the same pair and day,
	// and returns the stored row. An update keeps the existing id and creation fields.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
