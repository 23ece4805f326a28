package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a ledger engine failure.
type Kind string

const (
	KindInvalidStatusTransition     Kind = "InvalidStatusTransition"
	KindPermissionDenied            Kind = "PermissionDenied"
	KindPeriodClosed                Kind = "PeriodClosed"
	KindImbalancedJournal           Kind = "ImbalancedJournal"
	KindInvalidJournalLine          Kind = "InvalidJournalLine"
	KindVoucherTypeValidationFailed Kind = "VoucherTypeValidationFailed"
	KindAccountTypeMismatch         Kind = "AccountTypeMismatch"
	KindMissingDimension            Kind = "MissingDimension"
	KindInvalidAmountPrecision      Kind = "InvalidAmountPrecision"
	KindJournalLocked               Kind = "JournalLocked"
	KindReversalNotAllowed          Kind = "ReversalNotAllowed"
	KindReversalAlreadyExists       Kind = "ReversalAlreadyExists"
	KindPostingConflict             Kind = "PostingConflict"
	KindExchangeRateNotFound        Kind = "ExchangeRateNotFound"
)

// Sentinels for errors.Is matching. Any *LedgerError with the same Kind matches.
var (
	ErrInvalidStatusTransition     = &LedgerError{Kind: KindInvalidStatusTransition}
	ErrPermissionDenied            = &LedgerError{Kind: KindPermissionDenied}
	ErrPeriodClosed                = &LedgerError{Kind: KindPeriodClosed}
	ErrImbalancedJournal           = &LedgerError{Kind: KindImbalancedJournal}
	ErrInvalidJournalLine          = &LedgerError{Kind: KindInvalidJournalLine}
	ErrVoucherTypeValidationFailed = &LedgerError{Kind: KindVoucherTypeValidationFailed}
	ErrAccountTypeMismatch         = &LedgerError{Kind: KindAccountTypeMismatch}
	ErrMissingDimension            = &LedgerError{Kind: KindMissingDimension}
	ErrInvalidAmountPrecision      = &LedgerError{Kind: KindInvalidAmountPrecision}
	ErrJournalLocked               = &LedgerError{Kind: KindJournalLocked}
	ErrReversalNotAllowed          = &LedgerError{Kind: KindReversalNotAllowed}
	ErrReversalAlreadyExists       = &LedgerError{Kind: KindReversalAlreadyExists}
	ErrPostingConflict             = &LedgerError{Kind: KindPostingConflict}
	ErrExchangeRateNotFound        = &LedgerError{Kind: KindExchangeRateNotFound}
)

// LedgerError is the structured failure returned by the posting engine.
// LineNumber is zero when the failure is not tied to a single line.
type LedgerError struct {
	Kind       Kind
	Message    string
	JournalID  string
	LineNumber int
	Field      string
	Current    string
	Requested  string
	Err        error
}

func (e *LedgerError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.JournalID != "" {
		fmt.Fprintf(&b, " (journal %s", e.JournalID)
		if e.LineNumber > 0 {
			fmt.Fprintf(&b, ", line %d", e.LineNumber)
		}
		b.WriteString(")")
	} else if e.LineNumber > 0 {
		fmt.Fprintf(&b, " (line %d)", e.LineNumber)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can match against the package sentinels.
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewLedgerError builds a LedgerError of the given kind.
func NewLedgerError(kind Kind, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ForLine attaches the offending journal line.
func (e *LedgerError) ForLine(lineNumber int, field string) *LedgerError {
	e.LineNumber = lineNumber
	e.Field = field
	return e
}

// ForJournal attaches the journal id.
func (e *LedgerError) ForJournal(journalID string) *LedgerError {
	e.JournalID = journalID
	return e
}

// NewInvalidTransitionError names the current and requested states.
func NewInvalidTransitionError(journalID, current, requested string) *LedgerError {
	return &LedgerError{
		Kind:      KindInvalidStatusTransition,
		Message:   fmt.Sprintf("cannot move journal from %s to %s", current, requested),
		JournalID: journalID,
		Current:   current,
		Requested: requested,
	}
}

// NewPermissionDeniedError names the missing permission.
func NewPermissionDeniedError(userID, permission string) *LedgerError {
	return &LedgerError{
		Kind:    KindPermissionDenied,
		Message: fmt.Sprintf("user %s lacks permission %s", userID, permission),
		Field:   permission,
	}
}

// NewPostingConflictError wraps a storage-level lock or serialization failure.
func NewPostingConflictError(journalID string, err error) *LedgerError {
	return &LedgerError{
		Kind:      KindPostingConflict,
		Message:   "concurrent posting on overlapping accounts, retry the request",
		JournalID: journalID,
		Err:       err,
	}
}

// KindOf extracts the ledger kind from an error chain, or "" when none is present.
func KindOf(err error) Kind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
