package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNaturalBalance(t *testing.T) {
	balance := decimal.NewFromInt(-1000)
	assert.True(t, accounting.NaturalBalance(domain.Income, balance).Equal(decimal.NewFromInt(1000)))
	assert.True(t, accounting.NaturalBalance(domain.Asset, balance).Equal(balance))
}

func TestTrialBalanceColumns(t *testing.T) {
	debit, credit := accounting.TrialBalanceColumns(decimal.NewFromInt(-25))
	assert.True(t, debit.IsZero())
	assert.True(t, credit.Equal(decimal.NewFromInt(25)))

	debit, credit = accounting.TrialBalanceColumns(decimal.NewFromInt(40))
	assert.True(t, debit.Equal(decimal.NewFromInt(40)))
	assert.True(t, credit.IsZero())
}

func TestBalanceChanges(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "cash", FunctionalDebit: decimal.NewFromInt(100)},
		{AccountID: "cash", FunctionalCredit: decimal.NewFromInt(30)},
		{AccountID: "sales", FunctionalCredit: decimal.NewFromInt(70)},
	}
	changes := accounting.BalanceChanges(lines)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(70)))
	assert.True(t, changes["sales"].Equal(decimal.NewFromInt(-70)))
}

func TestDisplayAmount(t *testing.T) {
	assert.Equal(t, "1000.00", accounting.DisplayAmount(decimal.RequireFromString("1000")))
	assert.Equal(t, "12.35", accounting.DisplayAmount(decimal.RequireFromString("12.345")))
}
