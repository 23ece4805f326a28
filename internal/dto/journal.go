package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one caller-supplied leg. Functional amounts are always derived, never accepted.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  string          `json:"description" binding:"max=255"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"nonneg"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"nonneg"`
	DepartmentID *string         `json:"departmentID"`
	ProjectID    *string         `json:"projectID"`
	CostCenterID *string         `json:"costCenterID"`
	TaxCode      *string         `json:"taxCode"`
	TaxAmount    decimal.Decimal `json:"taxAmount" binding:"nonneg"`
}

// CreateJournalRequest defines the data needed to create a draft journal.
type CreateJournalRequest struct {
	JournalTypeID string               `json:"journalTypeID" binding:"required"`
	JournalDate   time.Time            `json:"journalDate" binding:"required"`
	CurrencyCode  string               `json:"currencyCode" binding:"required,iso4217"`
	Description   string               `json:"description" binding:"max=500"`
	Reference     string               `json:"reference" binding:"max=100"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateJournalRequest replaces the header and every line of an unlocked journal.
type UpdateJournalRequest = CreateJournalRequest

// RejectJournalRequest carries the reviewer's reason.
type RejectJournalRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// TransitionRequest asks for a generic status change.
type TransitionRequest struct {
	Status domain.JournalStatus `json:"status" binding:"required,oneof=DRAFT AWAITING_APPROVAL APPROVED POSTED REJECTED REVERSED"`
	Reason string               `json:"reason" binding:"max=500"`
}

// ListJournalsParams defines the query parameters for listing journals.
type ListJournalsParams struct {
	Status    *domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT AWAITING_APPROVAL APPROVED POSTED REJECTED REVERSED"`
	Limit     int                   `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string               `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID           string          `json:"lineID"`
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

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID       string                `json:"journalID"`
	JournalTypeID   string                `json:"journalTypeID"`
	PeriodID        *string               `json:"periodID,omitempty"`
	JournalNumber   string                `json:"journalNumber,omitempty"`
	JournalDate     time.Time             `json:"journalDate"`
	CurrencyCode    string                `json:"currencyCode"`
	ExchangeRate    decimal.Decimal       `json:"exchangeRate"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	TotalDebit      decimal.Decimal       `json:"totalDebit"`
	TotalCredit     decimal.Decimal       `json:"totalCredit"`
	Status          domain.JournalStatus  `json:"status"`
	IsLocked        bool                  `json:"isLocked"`
	IsReversal      bool                  `json:"isReversal"`
	ReversalOfID    *string               `json:"reversalOfID,omitempty"`
	ReversedByID    *string               `json:"reversedByID,omitempty"`
	PostedBy        *string               `json:"postedBy,omitempty"`
	PostedAt        *time.Time            `json:"postedAt,omitempty"`
	ApprovedBy      *string               `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time            `json:"approvedAt,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ValidationResponse reports the outcome of a dry-run validation.
type ValidationResponse struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
	Line  int    `json:"line,omitempty"`
	Field string `json:"field,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:           l.LineID,
		LineNumber:       l.LineNumber,
		AccountID:        l.AccountID,
		Description:      l.Description,
		DebitAmount:      l.DebitAmount,
		CreditAmount:     l.CreditAmount,
		FunctionalDebit:  l.FunctionalDebit,
		FunctionalCredit: l.FunctionalCredit,
		DepartmentID:     l.DepartmentID,
		ProjectID:        l.ProjectID,
		CostCenterID:     l.CostCenterID,
		TaxCode:          l.TaxCode,
		TaxAmount:        l.TaxAmount,
	}
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:       j.JournalID,
		JournalTypeID:   j.JournalTypeID,
		PeriodID:        j.PeriodID,
		JournalNumber:   j.JournalNumber,
		JournalDate:     j.JournalDate,
		CurrencyCode:    j.CurrencyCode,
		ExchangeRate:    j.ExchangeRate,
		Description:     j.Description,
		Reference:       j.Reference,
		TotalDebit:      j.TotalDebit,
		TotalCredit:     j.TotalCredit,
		Status:          j.Status,
		IsLocked:        j.IsLocked,
		IsReversal:      j.IsReversal,
		ReversalOfID:    j.ReversalOfID,
		ReversedByID:    j.ReversedByID,
		PostedBy:        j.PostedBy,
		PostedAt:        j.PostedAt,
		ApprovedBy:      j.ApprovedBy,
		ApprovedAt:      j.ApprovedAt,
		RejectionReason: j.RejectionReason,
		CreatedAt:       j.CreatedAt,
		CreatedBy:       j.CreatedBy,
		LastUpdatedAt:   j.LastUpdatedAt,
		LastUpdatedBy:   j.LastUpdatedBy,
	}
	for _, l := range j.SortedLines() {
		resp.Lines = append(resp.Lines, ToJournalLineResponse(l))
	}
	return resp
}

// ToListJournalsResponse converts a page of journals.
func ToListJournalsResponse(journals []domain.Journal, nextToken *string) ListJournalsResponse {
	resp := ListJournalsResponse{Journals: make([]JournalResponse, len(journals)), NextToken: nextToken}
	for i := range journals {
		resp.Journals[i] = ToJournalResponse(&journals[i])
	}
	return resp
}
