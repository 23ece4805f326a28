package domain

import "time"

// AuditAction names what happened to an audit subject.
type AuditAction string

const (
	AuditJournalCreated    AuditAction = "journal.created"
	AuditJournalUpdated    AuditAction = "journal.updated"
	AuditJournalTransition AuditAction = "journal.transition"
	AuditJournalPosted     AuditAction = "journal.posted"
	AuditJournalReversed   AuditAction = "journal.reversed"
	AuditReversalCreated   AuditAction = "journal.reversal_created"
	AuditPeriodClosed      AuditAction = "period.closed"
	AuditPeriodReopened    AuditAction = "period.reopened"
)

// Audit subject types.
const (
	SubjectJournal = "journal"
	SubjectPeriod  = "period"
)

// AuditEvent is the {actor, subject, action, details, timestamp} record handed to the audit log.
type AuditEvent struct {
	EventID        string         `json:"eventID"`
	OrganizationID string         `json:"organizationID"`
	ActorID        string         `json:"actorID"`
	SubjectType    string         `json:"subjectType"`
	SubjectID      string         `json:"subjectID"`
	Action         AuditAction    `json:"action"`
	Details        map[string]any `json:"details,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
