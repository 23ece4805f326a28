package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuantize_HalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.23445", "1.2345"},
		{"1.23444", "1.2344"},
		{"0.00005", "0.0001"},
		{"1000", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := domain.Quantize(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestIsQuantized(t *testing.T) {
	assert.True(t, domain.IsQuantized(decimal.RequireFromString("1000.00")))
	assert.True(t, domain.IsQuantized(decimal.RequireFromString("0.0001")))
	assert.False(t, domain.IsQuantized(decimal.RequireFromString("0.00001")))
}

func TestFunctionalAmount(t *testing.T) {
	got := domain.FunctionalAmount(decimal.RequireFromString("100.00"), decimal.RequireFromString("1.234567"))
	assert.Equal(t, "123.4567", got.String())
}

func TestJournalLine_Swapped(t *testing.T) {
	line := domain.JournalLine{
		DebitAmount:     decimal.NewFromInt(10),
		CreditAmount:    decimal.Zero,
		FunctionalDebit: decimal.NewFromInt(20),
	}
	swapped := line.Swapped()
	assert.True(t, swapped.CreditAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, swapped.DebitAmount.IsZero())
	assert.True(t, swapped.FunctionalCredit.Equal(decimal.NewFromInt(20)))
	assert.True(t, swapped.SignedFunctional().Equal(line.SignedFunctional().Neg()))
}
