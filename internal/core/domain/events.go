package domain

import "time"

// JournalEventType is the notification topic key for a journal state change.
type JournalEventType string

const (
	EventNeedsApproval JournalEventType = "journal.needs_approval"
	EventApproved      JournalEventType = "journal.approved"
	EventRejected      JournalEventType = "journal.rejected"
	EventPosted        JournalEventType = "journal.posted"
	EventReversed      JournalEventType = "journal.reversed"
)

// EventTypeForStatus maps an entered status to its notification, if any.
func EventTypeForStatus(s JournalStatus) (JournalEventType, bool) {
	switch s {
	case StatusAwaitingApproval:
		return EventNeedsApproval, true
	case StatusApproved:
		return EventApproved, true
	case StatusRejected:
		return EventRejected, true
	case StatusPosted:
		return EventPosted, true
	case StatusReversed:
		return EventReversed, true
	}
	return "", false
}

// JournalEvent is published for notification subscribers.
type JournalEvent struct {
	EventID        string           `json:"eventID"`
	Type           JournalEventType `json:"type"`
	OrganizationID string           `json:"organizationID"`
	JournalID      string           `json:"journalID"`
	JournalNumber  string           `json:"journalNumber,omitempty"`
	FromStatus     JournalStatus    `json:"fromStatus"`
	ToStatus       JournalStatus    `json:"toStatus"`
	ActorID        string           `json:"actorID"`
	Reason         string           `json:"reason,omitempty"`
	OccurredAt     time.Time        `json:"occurredAt"`
}
