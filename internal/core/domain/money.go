package domain

import "github.com/shopspring/decimal"

const (
	// AmountPlaces is the internal precision of every stored amount.
	AmountPlaces int32 = 4
	// DisplayPlaces is the precision used when amounts are rendered.
	DisplayPlaces int32 = 2
	// RatePlaces is the precision of exchange rates.
	RatePlaces int32 = 6
)

// Quantize rounds to AmountPlaces, half-up. Engine amounts are never negative,
// so decimal's half-away-from-zero rounding is half-up here.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// IsQuantized reports whether d already sits on the AmountPlaces boundary.
func IsQuantized(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountPlaces))
}

// FunctionalAmount converts a transaction-currency amount with rate and quantizes the result.
func FunctionalAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return Quantize(amount.Mul(rate))
}

// OneRate is the identity exchange rate.
var OneRate = decimal.NewFromInt(1)
