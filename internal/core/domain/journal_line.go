package domain

import "github.com/shopspring/decimal"

// JournalLine is one leg of a journal. Exactly one of DebitAmount and CreditAmount is non-zero.
type JournalLine struct {
	LineID           string          `json:"lineID"`
	JournalID        string          `json:"journalID"`
	LineNumber       int             `json:"lineNumber"`
	AccountID        string          `json:"accountID"`
	Description      string          `json:"description"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	FunctionalDebit  decimal.Decimal `json:"functionalDebit"`
	FunctionalCredit decimal.Decimal `json:"functionalCredit"`
	DepartmentID     *string         `json:"departmentID,omitempty"`
	ProjectID        *string         `json:"projectID,omitempty"`
	CostCenterID     *string         `json:"costCenterID,omitempty"`
	TaxCode          *string         `json:"taxCode,omitempty"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
}

// IsDebit reports whether the line carries the debit side.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns whichever side is non-zero.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// SignedFunctional is the effect of the line on a debit-positive balance.
func (l JournalLine) SignedFunctional() decimal.Decimal {
	return l.FunctionalDebit.Sub(l.FunctionalCredit)
}

// Swapped returns the equal-and-opposite line used by reversals.
func (l JournalLine) Swapped() JournalLine {
	out := l
	out.DebitAmount, out.CreditAmount = l.CreditAmount, l.DebitAmount
	out.FunctionalDebit, out.FunctionalCredit = l.FunctionalCredit, l.FunctionalDebit
	return out
}

// ApplyRate derives the functional-currency amounts from rate.
func (l *JournalLine) ApplyRate(rate decimal.Decimal) {
	l.FunctionalDebit = FunctionalAmount(l.DebitAmount, rate)
	l.FunctionalCredit = FunctionalAmount(l.CreditAmount, rate)
}
