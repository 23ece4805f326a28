package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ListLedgerEntriesParams defines the query parameters for paging an account's ledger.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse defines the data returned for a general ledger entry.
type LedgerEntryResponse struct {
	EntryID          string          `json:"entryID"`
	JournalID        string          `json:"journalID"`
	LineNumber       int             `json:"lineNumber"`
	TransactionDate  time.Time       `json:"transactionDate"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	FunctionalDebit  decimal.Decimal `json:"functionalDebit"`
	FunctionalCredit decimal.Decimal `json:"functionalCredit"`
	BalanceAfter     decimal.Decimal `json:"balanceAfter"`
	CurrencyCode     string          `json:"currencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListLedgerEntriesResponse wraps a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// AccountBalanceResponse reports an account's stored balance in its natural sign.
type AccountBalanceResponse struct {
	AccountID      string               `json:"accountID"`
	Nature         domain.AccountNature `json:"nature"`
	Balance        decimal.Decimal      `json:"balance"`
	NaturalBalance string               `json:"naturalBalance"`
	EntryCount     int64                `json:"entryCount"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string `json:"accountID"`
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	Nature      string `json:"nature"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Debit    string                    `json:"totalDebit"`
	Credit   string                    `json:"totalCredit"`
	Balanced bool                      `json:"balanced"`
}

func ToLedgerEntryResponse(e domain.GeneralLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:          e.EntryID,
		JournalID:        e.JournalID,
		LineNumber:       e.LineNumber,
		TransactionDate:  e.TransactionDate,
		DebitAmount:      e.DebitAmount,
		CreditAmount:     e.CreditAmount,
		FunctionalDebit:  e.FunctionalDebit,
		FunctionalCredit: e.FunctionalCredit,
		BalanceAfter:     e.BalanceAfter,
		CurrencyCode:     e.CurrencyCode,
		ExchangeRate:     e.ExchangeRate,
		CreatedAt:        e.CreatedAt,
	}
}

func ToListLedgerEntriesResponse(entries []domain.GeneralLedgerEntry, nextToken *string) ListLedgerEntriesResponse {
	resp := ListLedgerEntriesResponse{Entries: make([]LedgerEntryResponse, len(entries)), NextToken: nextToken}
	for i, e := range entries {
		resp.Entries[i] = ToLedgerEntryResponse(e)
	}
	return resp
}

func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:      b.AccountID,
		Nature:         b.Nature,
		Balance:        b.Balance,
		NaturalBalance: accounting.DisplayAmount(accounting.NaturalBalance(b.Nature, b.Balance)),
		EntryCount:     b.EntryCount,
	}
}

// ToTrialBalanceResponse renders amounts at display precision.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		Rows:     make([]TrialBalanceRowResponse, len(tb.Rows)),
		Debit:    accounting.DisplayAmount(tb.TotalDebit),
		Credit:   accounting.DisplayAmount(tb.TotalCredit),
		Balanced: tb.IsBalanced(),
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			Nature:      string(r.Nature),
			Debit:       accounting.DisplayAmount(r.Debit),
			Credit:      accounting.DisplayAmount(r.Credit),
		}
	}
	return resp
}
