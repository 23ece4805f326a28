package domain

import (
	"github.com/shopspring/decimal"
)

// AccountNature defines the fundamental accounting type of an account.
type AccountNature string

const (
	Asset     AccountNature = "ASSET"
	Liability AccountNature = "LIABILITY"
	Equity    AccountNature = "EQUITY"
	Income    AccountNature = "INCOME"
	Expense   AccountNature = "EXPENSE"
)

// Valid reports whether n is one of the five natures.
func (n AccountNature) Valid() bool {
	switch n {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsDebitNature is true for natures whose normal balance is a debit.
func (n AccountNature) IsDebitNature() bool {
	return n == Asset || n == Expense
}

// Account is consumed by the engine. Only the posting transactor writes CurrentBalance.
// CurrentBalance is debit-positive: debits add, credits subtract, in functional currency.
type Account struct {
	AccountID          string          `json:"accountID"`
	OrganizationID     string          `json:"organizationID"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Nature             AccountNature   `json:"nature"`
	CurrencyCode       string          `json:"currencyCode"`
	IsBank             bool            `json:"isBank"`
	RequiresDepartment bool            `json:"requiresDepartment"`
	RequiresProject    bool            `json:"requiresProject"`
	RequiresCostCenter bool            `json:"requiresCostCenter"`
	IsActive           bool            `json:"isActive"`
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	AuditFields
}

// Organization carries the functional currency used for ledger history.
type Organization struct {
	OrganizationID     string `json:"organizationID"`
	Name               string `json:"name"`
	FunctionalCurrency string `json:"functionalCurrency"`
	AuditFields
}
