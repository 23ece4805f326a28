package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
)

func (s *Store) FindJournalByID(_ context.Context, organizationID, journalID string) (*domain.Journal, error) {
	var out *domain.Journal
	err := s.read(func(st *state) error {
		var err error
		out, err = st.journal(organizationID, journalID)
		return err
	})
	return out, err
}

func (st *state) journal(organizationID, journalID string) (*domain.Journal, error) {
	j, ok := st.journals[journalID]
	if !ok || j.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError("journal not found")
	}
	c := copyJournal(j)
	return &c, nil
}

// ListJournals orders by journal date, creation time and id, all descending.
func (s *Store) ListJournals(_ context.Context, organizationID string, params portsrepo.ListJournalsParams) ([]domain.Journal, *string, error) {
	var cursor *pagination.JournalCursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		cursor = &c
	}
	limit := pagination.NormalizeLimit(params.Limit)

	var matched []domain.Journal
	_ = s.read(func(st *state) error {
		for _, j := range st.journals {
			if j.OrganizationID != organizationID {
				continue
			}
			if params.Status != nil && j.Status != *params.Status {
				continue
			}
			if cursor != nil && !cursor.Before(j.JournalDate, j.CreatedAt, j.JournalID) {
				continue
			}
			j.Lines = nil
			matched = append(matched, j)
		}
		return nil
	})

	sort.Slice(matched, func(a, b int) bool {
		x, y := matched[a], matched[b]
		if !x.JournalDate.Equal(y.JournalDate) {
			return x.JournalDate.After(y.JournalDate)
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.After(y.CreatedAt)
		}
		return x.JournalID > y.JournalID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
	return page, &token, nil
}

func (s *Store) SaveDraft(_ context.Context, journal domain.Journal) error {
	return s.write(func(st *state) error {
		return st.insertJournal(journal)
	})
}

func (st *state) insertJournal(journal domain.Journal) error {
	if _, ok := st.journals[journal.JournalID]; ok {
		return apperrors.NewAppError(409, "journal already exists", apperrors.ErrDuplicate)
	}
	st.journals[journal.JournalID] = copyJournal(journal)
	return nil
}

func (s *Store) ReplaceDraft(_ context.Context, journal domain.Journal) error {
	return s.write(func(st *state) error {
		current, ok := st.journals[journal.JournalID]
		if !ok || current.OrganizationID != journal.OrganizationID {
			return apperrors.NewNotFoundError("journal not found")
		}
		if !current.IsEditable() || current.Status != journal.Status {
			return apperrors.NewLedgerError(apperrors.KindJournalLocked, "journal changed to %s and can no longer be edited", current.Status).ForJournal(journal.JournalID)
		}
		st.journals[journal.JournalID] = copyJournal(journal)
		return nil
	})
}

func (s *Store) UpdateJournalStatus(_ context.Context, change portsrepo.StatusChange) error {
	return s.write(func(st *state) error {
		j, ok := st.journals[change.JournalID]
		if !ok {
			return apperrors.NewNotFoundError("journal not found")
		}
		if j.IsLocked || j.Status != change.From {
			return apperrors.NewAppError(409, "journal status changed concurrently", apperrors.ErrConflict)
		}
		change.Apply(&j)
		st.journals[change.JournalID] = j
		return nil
	})
}
