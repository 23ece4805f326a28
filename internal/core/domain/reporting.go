package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Nature      AccountNature   `json:"nature"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is the per-account debit/credit listing of an organization.
type TrialBalance struct {
	OrganizationID string            `json:"organizationID"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
}

// IsBalanced reports whether the debit and credit columns agree.
func (t TrialBalance) IsBalanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit)
}

// AccountBalance is a point-in-time snapshot of an account's stored balance.
type AccountBalance struct {
	AccountID      string          `json:"accountID"`
	OrganizationID string          `json:"organizationID"`
	Nature         AccountNature   `json:"nature"`
	Balance        decimal.Decimal `json:"balance"`
	EntryCount     int64           `json:"entryCount"`
}

// ChainBreak describes one ledger entry whose balance_after does not follow from its predecessor.
type ChainBreak struct {
	EntryID  string          `json:"entryID"`
	Sequence int64           `json:"sequence"`
	Expected decimal.Decimal `json:"expected"`
	Recorded decimal.Decimal `json:"recorded"`
}

// ChainVerification is the result of replaying an account's ledger from zero.
type ChainVerification struct {
	AccountID       string          `json:"accountID"`
	EntryCount      int             `json:"entryCount"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	LastBalance     decimal.Decimal `json:"lastBalanceAfter"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	Breaks          []ChainBreak    `json:"breaks,omitempty"`
}

// Reconciles reports whether the chain is unbroken and ends at the stored balance.
func (c ChainVerification) Reconciles() bool {
	return len(c.Breaks) == 0 &&
		c.ReplayedBalance.Equal(c.LastBalance) &&
		c.LastBalance.Equal(c.StoredBalance)
}

// VerifyChain replays entries (already in creation order) against the stored balance.
func VerifyChain(accountID string, entries []GeneralLedgerEntry, stored decimal.Decimal) ChainVerification {
	res := ChainVerification{
		AccountID:       accountID,
		EntryCount:      len(entries),
		ReplayedBalance: decimal.Zero,
		LastBalance:     decimal.Zero,
		StoredBalance:   stored,
	}
	for _, e := range entries {
		expected := res.LastBalance.Add(e.SignedAmount())
		if !expected.Equal(e.BalanceAfter) {
			res.Breaks = append(res.Breaks, ChainBreak{
				EntryID:  e.EntryID,
				Sequence: e.Sequence,
				Expected: expected,
				Recorded: e.BalanceAfter,
			})
		}
		res.ReplayedBalance = res.ReplayedBalance.Add(e.SignedAmount())
		res.LastBalance = e.BalanceAfter
	}
	return res
}
