package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const org = "org-1"

func seedAccount(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	require.NoError(t, s.SaveAccount(context.Background(), domain.Account{
		AccountID: id, OrganizationID: org, Code: id, Nature: domain.Asset, IsActive: true,
	}))
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s, "acc-1")

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(50), time.Now()); err != nil {
			return err
		}
		_, err := tx.AppendLedgerEntry(ctx, domain.GeneralLedgerEntry{EntryID: "e1", OrganizationID: org, AccountID: "acc-1", FunctionalDebit: decimal.NewFromInt(50)})
		return err
	})
	require.NoError(t, err)

	acc, err := s.FindAccountByID(ctx, org, "acc-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(50)))

	chain, err := s.ListAccountChain(ctx, org, "acc-1")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, int64(1), chain[0].Sequence)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s, "acc-1")
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		require.NoError(t, tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(50), time.Now()))
		_, err := tx.AppendLedgerEntry(ctx, domain.GeneralLedgerEntry{EntryID: "e1", OrganizationID: org, AccountID: "acc-1"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.FindAccountByID(ctx, org, "acc-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.IsZero())
	n, err := s.CountLedgerEntries(ctx, org, "acc-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunInTx_BeforeAppendEntryHookAborts(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s, "acc-1")
	s.BeforeAppendEntry = func(domain.GeneralLedgerEntry) error { return errors.New("disk full") }

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.AppendLedgerEntry(ctx, domain.GeneralLedgerEntry{OrganizationID: org, AccountID: "acc-1"})
		return err
	})
	require.Error(t, err)
	n, _ := s.CountLedgerEntries(ctx, org, "acc-1")
	assert.Zero(t, n)
}

func TestRunInTx_CancelledContextRollsBack(t *testing.T) {
	s := memory.NewStore()
	seedAccount(t, s, "acc-1")
	ctx, cancel := context.WithCancel(context.Background())

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		cancel()
		return tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(9), time.Now())
	})
	assert.ErrorIs(t, err, context.Canceled)

	acc, err := s.FindAccountByID(context.Background(), org, "acc-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.IsZero())
}

func TestSaveIdempotencyKey_DuplicateIsPostingConflict(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	rec := domain.IdempotencyRecord{OrganizationID: org, Key: "k1", JournalID: "j1"}

	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveIdempotencyKey(ctx, rec)
	}))
	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveIdempotencyKey(ctx, rec)
	})
	assert.ErrorIs(t, err, apperrors.ErrPostingConflict)

	found, err := s.FindIdempotencyKey(ctx, org, "k1")
	require.NoError(t, err)
	assert.Equal(t, "j1", found.JournalID)

	_, err = s.FindIdempotencyKey(ctx, "other-org", "k1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNextJournalSequence_PerTypeAndPeriod(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	var got []int64
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, key := range [][2]string{{"t1", "p1"}, {"t1", "p1"}, {"t2", "p1"}, {"t1", "p2"}} {
			n, err := tx.NextJournalSequence(ctx, key[0], key[1])
			if err != nil {
				return err
			}
			got = append(got, n)
		}
		return nil
	}))
	assert.Equal(t, []int64{1, 2, 1, 1}, got)
}

func TestUpdateJournalStatus_LostRace(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.SaveDraft(ctx, domain.Journal{JournalID: "j1", OrganizationID: org, Status: domain.StatusDraft}))

	change := portsrepo.StatusChange{JournalID: "j1", From: domain.StatusDraft, To: domain.StatusAwaitingApproval, UserID: "u1", At: time.Now()}
	require.NoError(t, s.UpdateJournalStatus(ctx, change))
	assert.ErrorIs(t, s.UpdateJournalStatus(ctx, change), apperrors.ErrConflict)

	approve := portsrepo.StatusChange{JournalID: "j1", From: domain.StatusAwaitingApproval, To: domain.StatusApproved, UserID: "u2", At: time.Now()}
	require.NoError(t, s.UpdateJournalStatus(ctx, approve))
	j, err := s.FindJournalByID(ctx, org, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, j.Status)
	require.NotNil(t, j.ApprovedBy)
	assert.Equal(t, "u2", *j.ApprovedBy)
}

func TestReplaceDraft_LockedJournal(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.SaveDraft(ctx, domain.Journal{JournalID: "j1", OrganizationID: org, Status: domain.StatusPosted, IsLocked: true}))

	err := s.ReplaceDraft(ctx, domain.Journal{JournalID: "j1", OrganizationID: org, Status: domain.StatusPosted})
	assert.ErrorIs(t, err, apperrors.ErrJournalLocked)
}

func TestListJournals_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.SaveDraft(ctx, domain.Journal{
			JournalID: id, OrganizationID: org, Status: domain.StatusDraft,
			JournalDate: base.AddDate(0, 0, i),
			AuditFields: domain.AuditFields{CreatedAt: base},
		}))
	}

	page, next, err := s.ListJournals(ctx, org, portsrepo.ListJournalsParams{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"e", "d"}, ids(page))

	page, next, err = s.ListJournals(ctx, org, portsrepo.ListJournalsParams{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(page))

	page, next, err = s.ListJournals(ctx, org, portsrepo.ListJournalsParams{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"a"}, ids(page))

	bad := "%%%"
	_, _, err = s.ListJournals(ctx, org, portsrepo.ListJournalsParams{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListLedgerEntries_PagesBySequence(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedAccount(t, s, "acc-1")
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.AppendLedgerEntry(ctx, domain.GeneralLedgerEntry{OrganizationID: org, AccountID: "acc-1"}); err != nil {
				return err
			}
		}
		return nil
	}))

	page, next, err := s.ListLedgerEntries(ctx, org, "acc-1", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Sequence)
	require.NotNil(t, next)

	page, next, err = s.ListLedgerEntries(ctx, org, "acc-1", 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].Sequence)
	assert.Nil(t, next)
}

func TestFindLatestRate_PicksMostRecentOnOrBefore(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	d := func(day int) time.Time { return time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC) }
	for day, rate := range map[int]string{1: "1.10", 5: "1.20", 9: "1.30"} {
		_, err := s.SaveExchangeRate(ctx, domain.ExchangeRate{
			ExchangeRateID: rate, OrganizationID: org, FromCurrencyCode: "EUR", ToCurrencyCode: "USD",
			Rate: decimal.RequireFromString(rate), RateDate: d(day), IsActive: true,
		})
		require.NoError(t, err)
	}

	r, err := s.FindLatestRate(ctx, org, "EUR", "USD", d(7))
	require.NoError(t, err)
	assert.Equal(t, "1.2", r.Rate.String())

	_, err = s.FindLatestRate(ctx, org, "EUR", "USD", time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveExchangeRate_OneRowPerPairAndDay(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	d := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	first, err := s.SaveExchangeRate(ctx, domain.ExchangeRate{
		ExchangeRateID: "r1", OrganizationID: org, FromCurrencyCode: "EUR", ToCurrencyCode: "USD",
		Rate: decimal.RequireFromString("1.2"), RateDate: d, IsActive: true,
		AuditFields: domain.AuditFields{CreatedBy: "u1", LastUpdatedBy: "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", first.ExchangeRateID)

	second, err := s.SaveExchangeRate(ctx, domain.ExchangeRate{
		ExchangeRateID: "r2", OrganizationID: org, FromCurrencyCode: "EUR", ToCurrencyCode: "USD",
		Rate: decimal.RequireFromString("1.25"), RateDate: d.Add(15 * time.Hour), IsActive: true,
		AuditFields: domain.AuditFields{CreatedBy: "u2", LastUpdatedBy: "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", second.ExchangeRateID)
	assert.Equal(t, "u1", second.CreatedBy)
	assert.Equal(t, "u2", second.LastUpdatedBy)
	assert.Equal(t, "1.25", second.Rate.String())

	rates, err := s.ListExchangeRates(ctx, org)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "r1", rates[0].ExchangeRateID)

	_, err = s.SaveExchangeRate(ctx, domain.ExchangeRate{
		ExchangeRateID: "r3", OrganizationID: org, FromCurrencyCode: "EUR", ToCurrencyCode: "EUR",
		Rate: decimal.RequireFromString("1"), RateDate: d,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFindPeriodCovering(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.SavePeriod(ctx, domain.AccountingPeriod{
		PeriodID: "p1", OrganizationID: org, Code: "2026-10", Status: domain.PeriodOpen,
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
	}))

	p, err := s.FindPeriodCovering(ctx, org, time.Date(2026, 10, 31, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "p1", p.PeriodID)

	_, err = s.FindPeriodCovering(ctx, org, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func ids(journals []domain.Journal) []string {
	out := make([]string, 0, len(journals))
	for _, j := range journals {
		out = append(out, j.JournalID)
	}
	return out
}
