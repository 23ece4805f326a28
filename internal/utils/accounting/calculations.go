package accounting

import (
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount is a line's effect on the debit-positive stored balance, in functional currency.
// DEBIT -> Positive (+), CREDIT -> Negative (-), whatever the account nature.
func SignedAmount(line domain.JournalLine) decimal.Decimal {
	return line.FunctionalDebit.Sub(line.FunctionalCredit)
}

// NaturalBalance flips a debit-positive balance into the sign the account's nature reads it in.
// A credit-nature account (liability, equity, income) with balance -100 has a natural balance of 100.
func NaturalBalance(nature domain.AccountNature, balance decimal.Decimal) decimal.Decimal {
	if nature.IsDebitNature() {
		return balance
	}
	return balance.Neg()
}

// TrialBalanceColumns splits a debit-positive balance into debit and credit columns.
func TrialBalanceColumns(balance decimal.Decimal) (debit, credit decimal.Decimal) {
	if balance.IsNegative() {
		return decimal.Zero, balance.Neg()
	}
	return balance, decimal.Zero
}

// BalanceChanges accumulates the signed effect of lines per account.
func BalanceChanges(lines []domain.JournalLine) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		changes[l.AccountID] = changes[l.AccountID].Add(SignedAmount(l))
	}
	return changes
}

// DisplayAmount renders an amount at display precision, half-up.
func DisplayAmount(amount decimal.Decimal) string {
	return amount.StringFixed(domain.DisplayPlaces)
}
