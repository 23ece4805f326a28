package memory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML layout accepted by LoadSeed.
type Seed struct {
	Organizations []SeedOrganization `yaml:"organizations"`
}

type SeedOrganization struct {
	ID                 string            `yaml:"id"`
	Name               string            `yaml:"name"`
	FunctionalCurrency string            `yaml:"functionalCurrency"`
	Accounts           []SeedAccount     `yaml:"accounts"`
	Periods            []SeedPeriod      `yaml:"periods"`
	JournalTypes       []SeedJournalType `yaml:"journalTypes"`
}

// SeedAccount has no balance field. Accounts open at zero so the ledger chain
// replays to the stored balance; opening balances are posted as journals.
type SeedAccount struct {
	ID       string               `yaml:"id"`
	Code     string               `yaml:"code"`
	Name     string               `yaml:"name"`
	Nature   domain.AccountNature `yaml:"nature"`
	Currency string               `yaml:"currency"`
	Bank     bool                 `yaml:"bank"`
	// Requires lists mandatory dimensions: department, project, costCenter.
	Requires []string `yaml:"requires"`
}

type SeedPeriod struct {
	ID     string              `yaml:"id"`
	Code   string              `yaml:"code"`
	Start  time.Time           `yaml:"start"`
	End    time.Time           `yaml:"end"`
	Status domain.PeriodStatus `yaml:"status"`
}

type SeedJournalType struct {
	ID    string             `yaml:"id"`
	Code  string             `yaml:"code"`
	Name  string             `yaml:"name"`
	Kind  domain.JournalKind `yaml:"kind"`
	Rules []domain.RuleSpec  `yaml:"rules"`
}

const seedUser = "seed"

// LoadSeed decodes YAML reference data from r and saves it into the store.
// Unknown keys are rejected.
func (s *Store) LoadSeed(ctx context.Context, r io.Reader, now time.Time) error {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: seedUser, LastUpdatedAt: now, LastUpdatedBy: seedUser}

	for _, o := range seed.Organizations {
		if o.ID == "" || o.FunctionalCurrency == "" {
			return fmt.Errorf("seed organization %q needs id and functionalCurrency", o.Name)
		}
		if err := s.SaveOrganization(ctx, domain.Organization{
			OrganizationID:     o.ID,
			Name:               o.Name,
			FunctionalCurrency: o.FunctionalCurrency,
			AuditFields:        audit,
		}); err != nil {
			return err
		}

		for _, a := range o.Accounts {
			account, err := a.toDomain(o, audit)
			if err != nil {
				return err
			}
			if err := s.SaveAccount(ctx, account); err != nil {
				return err
			}
		}

		for _, p := range o.Periods {
			status := p.Status
			if status == "" {
				status = domain.PeriodOpen
			}
			if err := s.SavePeriod(ctx, domain.AccountingPeriod{
				PeriodID:       idOrNew(p.ID),
				OrganizationID: o.ID,
				Code:           p.Code,
				StartDate:      domain.DateOnly(p.Start),
				EndDate:        domain.DateOnly(p.End),
				Status:         status,
				AuditFields:    audit,
			}); err != nil {
				return fmt.Errorf("seed period %s: %w", p.Code, err)
			}
		}

		for _, t := range o.JournalTypes {
			rules, err := domain.ParseRules(t.Rules)
			if err != nil {
				return fmt.Errorf("seed journal type %s: %w", t.Code, err)
			}
			if err := s.UpsertJournalType(ctx, domain.JournalType{
				JournalTypeID:  idOrNew(t.ID),
				OrganizationID: o.ID,
				Code:           t.Code,
				Name:           t.Name,
				Kind:           t.Kind,
				Rules:          rules,
				IsActive:       true,
				AuditFields:    audit,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a SeedAccount) toDomain(o SeedOrganization, audit domain.AuditFields) (domain.Account, error) {
	if !a.Nature.Valid() {
		return domain.Account{}, fmt.Errorf("seed account %s: unknown nature %q", a.Code, a.Nature)
	}
	currency := a.Currency
	if currency == "" {
		currency = o.FunctionalCurrency
	}
	account := domain.Account{
		AccountID:      idOrNew(a.ID),
		OrganizationID: o.ID,
		Code:           a.Code,
		Name:           a.Name,
		Nature:         a.Nature,
		CurrencyCode:   currency,
		IsBank:         a.Bank,
		IsActive:       true,
		CurrentBalance: decimal.Zero,
		AuditFields:    audit,
	}
	for _, dim := range a.Requires {
		switch dim {
		case "department":
			account.RequiresDepartment = true
		case "project":
			account.RequiresProject = true
		case "costCenter":
			account.RequiresCostCenter = true
		default:
			return domain.Account{}, fmt.Errorf("seed account %s: unknown dimension %q", a.Code, dim)
		}
	}
	return account, nil
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
