package dto

// ErrorResponse is the body of every failed request.
// Ledger failures also carry their kind and the offending journal line.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	JournalID string `json:"journalID,omitempty"`
	Line      int    `json:"line,omitempty"`
	Field     string `json:"field,omitempty"`
	Current   string `json:"current,omitempty"`
	Requested string `json:"requested,omitempty"`
}
