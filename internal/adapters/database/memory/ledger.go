package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
)

// ListLedgerEntries pages by descending sequence; the token is the last sequence returned.
func (s *Store) ListLedgerEntries(_ context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	var before int64
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		before = seq
	}
	limit = pagination.NormalizeLimit(limit)

	var page []domain.GeneralLedgerEntry
	more := false
	_ = s.read(func(st *state) error {
		for i := len(st.entries) - 1; i >= 0; i-- {
			e := st.entries[i]
			if e.OrganizationID != organizationID || e.AccountID != accountID {
				continue
			}
			if before > 0 && e.Sequence >= before {
				continue
			}
			if len(page) == limit {
				more = true
				break
			}
			page = append(page, e)
		}
		return nil
	})
	if !more {
		return page, nil, nil
	}
	token := pagination.EncodeSequenceToken(page[len(page)-1].Sequence)
	return page, &token, nil
}

func (s *Store) ListAccountChain(_ context.Context, organizationID, accountID string) ([]domain.GeneralLedgerEntry, error) {
	var out []domain.GeneralLedgerEntry
	err := s.read(func(st *state) error {
		for _, e := range st.entries {
			if e.OrganizationID == organizationID && e.AccountID == accountID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) FindEntriesByJournalID(_ context.Context, journalID string) ([]domain.GeneralLedgerEntry, error) {
	var out []domain.GeneralLedgerEntry
	err := s.read(func(st *state) error {
		for _, e := range st.entries {
			if e.JournalID == journalID {
				out = append(out, e)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out, err
}

func (s *Store) CountLedgerEntries(_ context.Context, organizationID, accountID string) (int64, error) {
	var n int64
	err := s.read(func(st *state) error {
		for _, e := range st.entries {
			if e.OrganizationID == organizationID && e.AccountID == accountID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Idempotency

func idempotencyMapKey(organizationID, key string) string {
	return organizationID + "|" + key
}

func (s *Store) FindIdempotencyKey(_ context.Context, organizationID, key string) (*domain.IdempotencyRecord, error) {
	var out *domain.IdempotencyRecord
	err := s.read(func(st *state) error {
		var err error
		out, err = st.idempotencyKey(organizationID, key)
		return err
	})
	return out, err
}

func (st *state) idempotencyKey(organizationID, key string) (*domain.IdempotencyRecord, error) {
	rec, ok := st.idempotency[idempotencyMapKey(organizationID, key)]
	if !ok {
		return nil, apperrors.NewNotFoundError("idempotency key not found")
	}
	return &rec, nil
}

// Audit

func (s *Store) SaveAuditEvent(_ context.Context, event domain.AuditEvent) error {
	s.auditMu.Lock()
	defer s.auditMu.Unlock()
	s.audit = append(s.audit, event)
	return nil
}

// ListAuditEvents filters by subject; an empty subjectID matches every subject of the type.
func (s *Store) ListAuditEvents(_ context.Context, organizationID, subjectType, subjectID string) ([]domain.AuditEvent, error) {
	s.auditMu.Lock()
	defer s.auditMu.Unlock()
	return slices.DeleteFunc(slices.Clone(s.audit), func(e domain.AuditEvent) bool {
		return e.OrganizationID != organizationID ||
			(subjectType != "" && e.SubjectType != subjectType) ||
			(subjectID != "" && e.SubjectID != subjectID)
	}), nil
}
