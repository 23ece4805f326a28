package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a proposed or posted double-entry transaction.
// TotalDebit and TotalCredit are always recomputed from Lines, never taken from callers.
type Journal struct {
	JournalID       string          `json:"journalID"`
	OrganizationID  string          `json:"organizationID"`
	JournalTypeID   string          `json:"journalTypeID"`
	PeriodID        *string         `json:"periodID,omitempty"`
	JournalNumber   string          `json:"journalNumber,omitempty"` // assigned at posting
	JournalDate     time.Time       `json:"journalDate"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Status          JournalStatus   `json:"status"`
	IsLocked        bool            `json:"isLocked"`
	IsReversal      bool            `json:"isReversal"`
	ReversalOfID    *string         `json:"reversalOfID,omitempty"`
	ReversedByID    *string         `json:"reversedByID,omitempty"`
	SourceModule    string          `json:"sourceModule"`
	PostedBy        *string         `json:"postedBy,omitempty"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	Lines           []JournalLine   `json:"lines"`
	AuditFields
}

// RecomputeTotals sums the transaction-currency debits and credits of every line.
func (j *Journal) RecomputeTotals() {
	debit, credit := SumLines(j.Lines)
	j.TotalDebit = debit
	j.TotalCredit = credit
}

// SumLines returns the transaction-currency debit and credit totals.
func SumLines(lines []JournalLine) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit, credit
}

// SumFunctional returns the functional-currency debit and credit totals.
func SumFunctional(lines []JournalLine) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.FunctionalDebit)
		credit = credit.Add(l.FunctionalCredit)
	}
	return debit, credit
}

// IsEditable reports whether header and lines may still change.
func (j *Journal) IsEditable() bool {
	if j.IsLocked {
		return false
	}
	switch j.Status {
	case StatusDraft, StatusAwaitingApproval, StatusApproved:
		return true
	}
	return false
}

// SortedLines returns the lines in posting order.
func (j *Journal) SortedLines() []JournalLine {
	lines := make([]JournalLine, len(j.Lines))
	copy(lines, j.Lines)
	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].LineNumber < lines[b].LineNumber
	})
	return lines
}

// AccountIDs returns the distinct account ids touched by the journal, ascending.
func (j *Journal) AccountIDs() []string {
	seen := make(map[string]struct{}, len(j.Lines))
	ids := make([]string, 0, len(j.Lines))
	for _, l := range j.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// ReversalReference is the tag a reversal journal carries for its original.
func ReversalReference(originalNumber string) string {
	return "REV:" + originalNumber
}

// IdempotencyRecord links a caller-supplied key to the journal it produced.
type IdempotencyRecord struct {
	OrganizationID string    `json:"organizationID"`
	Key            string    `json:"key"`
	JournalID      string    `json:"journalID"`
	CreatedAt      time.Time `json:"createdAt"`
}
