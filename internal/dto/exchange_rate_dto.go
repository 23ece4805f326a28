package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,iso4217"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,iso4217,nefield=FromCurrencyCode"`
	Rate             decimal.Decimal `json:"rate" binding:"required,positive"`
	RateDate         time.Time       `json:"rateDate" binding:"required"`
}

// ToDomain converts the request into an unsaved domain.ExchangeRate.
func (r CreateExchangeRateRequest) ToDomain() domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		RateDate:         r.RateDate,
	}
}

// ResolveRateParams are the query parameters of a rate resolution.
type ResolveRateParams struct {
	From string    `form:"from" binding:"required,iso4217"`
	To   string    `form:"to" binding:"required,iso4217"`
	AsOf time.Time `form:"asOf" time_format:"2006-01-02"`
}

// ResolvedRateResponse is the rate the resolver would apply.
type ResolvedRateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	AsOf time.Time       `json:"asOf"`
	Rate decimal.Decimal `json:"rate"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	RateDate         time.Time       `json:"rateDate"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		RateDate:         rate.RateDate,
		IsActive:         rate.IsActive,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
