package domain

import "time"

// PeriodStatus is the posting state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a bounded, inclusive date range.
type AccountingPeriod struct {
	PeriodID       string       `json:"periodID"`
	OrganizationID string       `json:"organizationID"`
	Code           string       `json:"code"` // e.g. 2026-10
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	ClosedAt       *time.Time   `json:"closedAt,omitempty"`
	ClosedBy       *string      `json:"closedBy,omitempty"`
	AuditFields
}

// Covers reports whether the calendar day of date lies within the period.
func (p AccountingPeriod) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// IsOpen reports whether postings are accepted.
func (p AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
