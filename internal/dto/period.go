package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	Code      string              `json:"code"`
	StartDate time.Time           `json:"startDate"`
	EndDate   time.Time           `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
	ClosedAt  *time.Time          `json:"closedAt,omitempty"`
	ClosedBy  *string             `json:"closedBy,omitempty"`
}

// PeriodStatusQuery asks whether a date is postable.
type PeriodStatusQuery struct {
	Date time.Time `form:"date" binding:"required" time_format:"2006-01-02"`
}

// PeriodOpenResponse answers a PeriodStatusQuery.
type PeriodOpenResponse struct {
	Date time.Time `json:"date"`
	Open bool      `json:"open"`
}

func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Code:      p.Code,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		ClosedAt:  p.ClosedAt,
		ClosedBy:  p.ClosedBy,
	}
}

func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out
}
