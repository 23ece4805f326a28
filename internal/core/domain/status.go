package domain

// JournalStatus indicates the lifecycle state of a journal.
type JournalStatus string

const (
	StatusDraft            JournalStatus = "DRAFT"
	StatusAwaitingApproval JournalStatus = "AWAITING_APPROVAL"
	StatusApproved         JournalStatus = "APPROVED"
	StatusPosted           JournalStatus = "POSTED"
	StatusRejected         JournalStatus = "REJECTED"
	StatusReversed         JournalStatus = "REVERSED"
)

var transitions = map[JournalStatus][]JournalStatus{
	StatusDraft:            {StatusAwaitingApproval, StatusPosted},
	StatusAwaitingApproval: {StatusApproved, StatusRejected, StatusDraft},
	StatusApproved:         {StatusPosted, StatusRejected, StatusDraft},
	StatusPosted:           {StatusReversed},
	StatusRejected:         {StatusDraft},
	StatusReversed:         {},
}

// Valid reports whether s is a known status.
func (s JournalStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to JournalStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets lists the legal next states of s.
func AllowedTargets(s JournalStatus) []JournalStatus {
	out := make([]JournalStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// IsTerminal reports whether no transition leaves s.
func (s JournalStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}
