package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceModuleManual tags entries posted through the journal API.
const SourceModuleManual = "journal"

// GeneralLedgerEntry is the immutable record of one posted line.
// BalanceAfter equals the previous entry's BalanceAfter plus this entry's signed functional amount.
type GeneralLedgerEntry struct {
	EntryID          string          `json:"entryID"`
	Sequence         int64           `json:"sequence"`
	OrganizationID   string          `json:"organizationID"`
	AccountID        string          `json:"accountID"`
	JournalID        string          `json:"journalID"`
	JournalLineID    string          `json:"journalLineID"`
	LineNumber       int             `json:"lineNumber"`
	PeriodID         string          `json:"periodID"`
	TransactionDate  time.Time       `json:"transactionDate"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	FunctionalDebit  decimal.Decimal `json:"functionalDebit"`
	FunctionalCredit decimal.Decimal `json:"functionalCredit"`
	BalanceAfter     decimal.Decimal `json:"balanceAfter"`
	CurrencyCode     string          `json:"currencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	DepartmentID     *string         `json:"departmentID,omitempty"`
	ProjectID        *string         `json:"projectID,omitempty"`
	CostCenterID     *string         `json:"costCenterID,omitempty"`
	SourceModule     string          `json:"sourceModule"`
	CreatedBy        string          `json:"createdBy"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// SignedAmount is the entry's effect on a debit-positive balance.
func (e GeneralLedgerEntry) SignedAmount() decimal.Decimal {
	return e.FunctionalDebit.Sub(e.FunctionalCredit)
}
