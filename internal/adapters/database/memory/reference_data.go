package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// SaveOrganization inserts or replaces an organization.
func (s *Store) SaveOrganization(_ context.Context, org domain.Organization) error {
	return s.write(func(st *state) error {
		st.orgs[org.OrganizationID] = org
		return nil
	})
}

// SaveAccount inserts or replaces an account.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	return s.write(func(st *state) error {
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) FindOrganizationByID(_ context.Context, organizationID string) (*domain.Organization, error) {
	var out *domain.Organization
	err := s.read(func(st *state) error {
		org, ok := st.orgs[organizationID]
		if !ok {
			return apperrors.NewNotFoundError("organization not found")
		}
		out = &org
		return nil
	})
	return out, err
}

func (s *Store) FindAccountByID(_ context.Context, organizationID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.OrganizationID != organizationID {
			return apperrors.NewNotFoundError("account not found")
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	var out map[string]domain.Account
	err := s.read(func(st *state) error {
		out = st.accountsByIDs(accountIDs)
		return nil
	})
	return out, err
}

func (s *Store) ListAccounts(_ context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	var out []domain.Account
	err := s.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.OrganizationID == organizationID && (includeInactive || acc.IsActive) {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (st *state) accountsByIDs(ids []string) map[string]domain.Account {
	out := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		if acc, ok := st.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out
}

// Periods

func (s *Store) SavePeriod(_ context.Context, period domain.AccountingPeriod) error {
	return s.write(func(st *state) error {
		for _, p := range st.periods {
			if p.PeriodID != period.PeriodID && p.OrganizationID == period.OrganizationID &&
				!p.StartDate.After(period.EndDate) && !period.StartDate.After(p.EndDate) {
				return apperrors.NewAppError(409, "period overlaps "+p.Code, apperrors.ErrDuplicate)
			}
		}
		st.periods[period.PeriodID] = period
		return nil
	})
}

func (s *Store) UpdatePeriodStatus(_ context.Context, periodID string, status domain.PeriodStatus, closedAt *time.Time, closedBy *string, updatedBy string, updatedAt time.Time) error {
	return s.write(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("period not found")
		}
		p.Status = status
		p.ClosedAt = closedAt
		p.ClosedBy = closedBy
		p.LastUpdatedBy = updatedBy
		p.LastUpdatedAt = updatedAt
		st.periods[periodID] = p
		return nil
	})
}

func (s *Store) FindPeriodByID(_ context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := s.read(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok || p.OrganizationID != organizationID {
			return apperrors.NewNotFoundError("period not found")
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *Store) FindPeriodCovering(_ context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := s.read(func(st *state) error {
		var err error
		out, err = st.periodCovering(organizationID, date)
		return err
	})
	return out, err
}

func (st *state) periodCovering(organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	for _, p := range st.periods {
		if p.OrganizationID == organizationID && p.Covers(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no accounting period covers " + domain.DateOnly(date).Format(time.DateOnly))
}

func (s *Store) ListPeriods(_ context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	err := s.read(func(st *state) error {
		for _, p := range st.periods {
			if p.OrganizationID == organizationID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, err
}

// Exchange rates

// SaveExchangeRate keeps one row per (organization, pair, day). A second save for the
// same day updates that row in place.
func (s *Store) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	var out domain.ExchangeRate
	err := s.write(func(st *state) error {
		if rate.FromCurrencyCode == rate.ToCurrencyCode {
			return apperrors.NewValidationError("from and to currencies cannot be the same")
		}
		rate.RateDate = domain.DateOnly(rate.RateDate)
		for i, r := range st.rates {
			if r.OrganizationID == rate.OrganizationID && r.FromCurrencyCode == rate.FromCurrencyCode &&
				r.ToCurrencyCode == rate.ToCurrencyCode && domain.DateOnly(r.RateDate).Equal(rate.RateDate) {
				r.Rate = rate.Rate
				r.IsActive = rate.IsActive
				r.LastUpdatedAt = rate.LastUpdatedAt
				r.LastUpdatedBy = rate.LastUpdatedBy
				st.rates[i] = r
				out = r
				return nil
			}
		}
		st.rates = append(st.rates, rate)
		out = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindLatestRate(_ context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error) {
	var out *domain.ExchangeRate
	err := s.read(func(st *state) error {
		day := domain.DateOnly(asOf)
		for _, r := range st.rates {
			if r.OrganizationID != organizationID || r.FromCurrencyCode != fromCurrency ||
				r.ToCurrencyCode != toCurrency || !r.IsActive || domain.DateOnly(r.RateDate).After(day) {
				continue
			}
			if out == nil || r.RateDate.After(out.RateDate) ||
				(r.RateDate.Equal(out.RateDate) && r.CreatedAt.After(out.CreatedAt)) {
				found := r
				out = &found
			}
		}
		if out == nil {
			return apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil
	})
	return out, err
}

func (s *Store) ListExchangeRates(_ context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	var out []domain.ExchangeRate
	err := s.read(func(st *state) error {
		for _, r := range st.rates {
			if r.OrganizationID == organizationID {
				out = append(out, r)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RateDate.After(out[j].RateDate) })
	return out, err
}

// Journal types

func (s *Store) UpsertJournalType(_ context.Context, journalType domain.JournalType) error {
	return s.write(func(st *state) error {
		for id, t := range st.types {
			if t.OrganizationID == journalType.OrganizationID && t.Code == journalType.Code && id != journalType.JournalTypeID {
				delete(st.types, id)
			}
		}
		st.types[journalType.JournalTypeID] = journalType
		return nil
	})
}

func (s *Store) FindJournalTypeByID(_ context.Context, journalTypeID string) (*domain.JournalType, error) {
	var out *domain.JournalType
	err := s.read(func(st *state) error {
		var err error
		out, err = st.journalType(journalTypeID)
		return err
	})
	return out, err
}

func (st *state) journalType(id string) (*domain.JournalType, error) {
	t, ok := st.types[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal type not found")
	}
	return &t, nil
}

func (s *Store) FindJournalTypeByCode(_ context.Context, organizationID, code string) (*domain.JournalType, error) {
	var out *domain.JournalType
	err := s.read(func(st *state) error {
		for _, t := range st.types {
			if t.OrganizationID == organizationID && t.Code == code {
				found := t
				out = &found
				return nil
			}
		}
		return apperrors.NewNotFoundError("journal type not found")
	})
	return out, err
}

func (s *Store) ListJournalTypes(_ context.Context, organizationID string) ([]domain.JournalType, error) {
	var out []domain.JournalType
	err := s.read(func(st *state) error {
		for _, t := range st.types {
			if t.OrganizationID == organizationID {
				out = append(out, t)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}
