package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// DefaultLimit is used when a caller does not ask for a page size.
const DefaultLimit = 20

// NormalizeLimit clamps a requested page size to [1, 100].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > 100:
		return 100
	}
	return limit
}

// JournalCursor is the position of the last journal returned, newest-first ordering.
type JournalCursor struct {
	JournalDate time.Time
	CreatedAt   time.Time
	JournalID   string
}

// EncodeToken creates a base64 encoded token from the journal ordering keys.
func EncodeToken(c JournalCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.JournalDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.JournalID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (JournalCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	journalDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (journal date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return JournalCursor{JournalDate: journalDate, CreatedAt: createdAt, JournalID: parts[2]}, nil
}

// Before reports whether a journal with the given keys sorts after the cursor (i.e. belongs on a later page).
func (c JournalCursor) Before(journalDate, createdAt time.Time, journalID string) bool {
	if !journalDate.Equal(c.JournalDate) {
		return journalDate.Before(c.JournalDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return journalID < c.JournalID
}

// EncodeSequenceToken creates a token for ledger entries paged by their sequence.
func EncodeSequenceToken(sequence int64) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatInt(sequence, 10)))
}

// DecodeSequenceToken decodes a token produced by EncodeSequenceToken.
func DecodeSequenceToken(token string) (int64, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	seq, err := strconv.ParseInt(string(decodedBytes), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return seq, nil
}
