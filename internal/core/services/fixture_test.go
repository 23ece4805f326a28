package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	orgID      = "org-1"
	otherOrgID = "org-2"

	accCash     = "acc-cash"
	accBank     = "acc-bank"
	accPayable  = "acc-payable"
	accEquity   = "acc-equity"
	accRevenue  = "acc-revenue"
	accExpense  = "acc-expense"
	accInactive = "acc-inactive"
	accForeign  = "acc-foreign"

	periodSep = "p-2026-09"
	periodOct = "p-2026-10"

	typeGeneral  = "jt-gen"
	typeContra   = "jt-contra"
	typeSales    = "jt-sales"
	typeCredit   = "jt-cn"
	typeMinimum  = "jt-min"
	typeInactive = "jt-inactive"
	typeForeign  = "jt-foreign"
)

// testNow sits inside the open October 2026 period.
var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.JournalEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.JournalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []domain.JournalEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.JournalEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ledgerFixture is a fully wired engine over the in-memory store.
type ledgerFixture struct {
	store      *memory.Store
	svc        *portssvc.ServiceContainer
	publisher  *recordingPublisher
	admin      domain.Actor
	accountant domain.Actor
	approver   domain.Actor
	reader     domain.Actor
}

type fixtureOption func(cfg *config.Config, collab *services.Collaborators)

func withStrictRates() fixtureOption {
	return func(cfg *config.Config, _ *services.Collaborators) { cfg.StrictExchangeRates = true }
}

func withAudit(audit portssvc.AuditLogger) fixtureOption {
	return func(_ *config.Config, c *services.Collaborators) { c.Audit = audit }
}

func withCache(cache portssvc.BalanceCache) fixtureOption {
	return func(_ *config.Config, c *services.Collaborators) { c.Cache = cache }
}

func newLedgerFixture(t *testing.T, opts ...fixtureOption) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	seedReferenceData(t, ctx, store)

	cfg := &config.Config{}
	publisher := &recordingPublisher{}
	collab := services.Collaborators{Publisher: publisher}
	for _, opt := range opts {
		opt(cfg, &collab)
	}

	return &ledgerFixture{
		store:      store,
		svc:        services.NewServiceContainer(cfg, store.Provider(), collab, services.WithClock(func() time.Time { return testNow })),
		publisher:  publisher,
		admin:      domain.NewActor("u-admin", orgID, domain.PermissionsForRole(domain.RoleAdmin)...),
		accountant: domain.NewActor("u-accountant", orgID, domain.PermissionsForRole(domain.RoleAccountant)...),
		approver:   domain.NewActor("u-approver", orgID, domain.PermissionsForRole(domain.RoleApprover)...),
		reader:     domain.NewActor("u-reader", orgID, domain.PermissionsForRole(domain.RoleReadOnly)...),
	}
}

func seedReferenceData(t *testing.T, ctx context.Context, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.SaveOrganization(ctx, domain.Organization{OrganizationID: orgID, Name: "Acme", FunctionalCurrency: "USD"}))
	require.NoError(t, store.SaveOrganization(ctx, domain.Organization{OrganizationID: otherOrgID, Name: "Globex", FunctionalCurrency: "EUR"}))

	accounts := []domain.Account{
		{AccountID: accCash, OrganizationID: orgID, Code: "1000", Name: "Cash", Nature: domain.Asset, IsBank: true, IsActive: true},
		{AccountID: accBank, OrganizationID: orgID, Code: "1010", Name: "Bank", Nature: domain.Asset, IsBank: true, IsActive: true},
		{AccountID: accPayable, OrganizationID: orgID, Code: "2000", Name: "Payables", Nature: domain.Liability, IsActive: true},
		{AccountID: accEquity, OrganizationID: orgID, Code: "3000", Name: "Capital", Nature: domain.Equity, IsActive: true},
		{AccountID: accRevenue, OrganizationID: orgID, Code: "4000", Name: "Revenue", Nature: domain.Income, IsActive: true},
		{AccountID: accExpense, OrganizationID: orgID, Code: "5000", Name: "Travel", Nature: domain.Expense, IsActive: true, RequiresDepartment: true},
		{AccountID: accInactive, OrganizationID: orgID, Code: "1999", Name: "Old till", Nature: domain.Asset},
		{AccountID: accForeign, OrganizationID: otherOrgID, Code: "1000", Name: "Cash", Nature: domain.Asset, IsActive: true},
	}
	for _, a := range accounts {
		a.CurrencyCode = "USD"
		a.CurrentBalance = decimal.Zero
		require.NoError(t, store.SaveAccount(ctx, a))
	}

	closedAt := day(1)
	closedBy := "u-admin"
	require.NoError(t, store.SavePeriod(ctx, domain.AccountingPeriod{
		PeriodID: periodSep, OrganizationID: orgID, Code: "2026-09", Status: domain.PeriodClosed,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		ClosedAt: &closedAt, ClosedBy: &closedBy,
	}))
	require.NoError(t, store.SavePeriod(ctx, domain.AccountingPeriod{
		PeriodID: periodOct, OrganizationID: orgID, Code: "2026-10", Status: domain.PeriodOpen,
		StartDate: day(1), EndDate: day(31),
	}))

	types := []domain.JournalType{
		{JournalTypeID: typeGeneral, OrganizationID: orgID, Code: "JV", Name: "Journal Voucher", Kind: domain.KindGeneral, IsActive: true},
		{JournalTypeID: typeContra, OrganizationID: orgID, Code: "CT", Name: "Contra", Kind: domain.KindContra, IsActive: true},
		{JournalTypeID: typeSales, OrganizationID: orgID, Code: "SV", Name: "Sales", Kind: domain.KindSales, IsActive: true,
			Rules: domain.VoucherRules{
				domain.AllowedAccountNatures{Natures: []domain.AccountNature{domain.Asset, domain.Income}},
				domain.MaxAmount{Amount: amt("10000")},
			}},
		{JournalTypeID: typeCredit, OrganizationID: orgID, Code: "CN", Name: "Credit Note", Kind: domain.KindCreditNote, IsActive: true},
		{JournalTypeID: typeMinimum, OrganizationID: orgID, Code: "BIG", Name: "Large items", Kind: domain.KindGeneral, IsActive: true,
			Rules: domain.VoucherRules{domain.MinAmount{Amount: amt("50")}}},
		{JournalTypeID: typeInactive, OrganizationID: orgID, Code: "OLD", Name: "Retired", Kind: domain.KindGeneral},
		{JournalTypeID: typeForeign, OrganizationID: otherOrgID, Code: "JV", Name: "Journal Voucher", Kind: domain.KindGeneral, IsActive: true},
	}
	for _, jt := range types {
		require.NoError(t, store.UpsertJournalType(ctx, jt))
	}

	rates := []domain.ExchangeRate{
		{ExchangeRateID: "r-eur", OrganizationID: orgID, FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: amt("1.1"), RateDate: day(1), IsActive: true},
		{ExchangeRateID: "r-usd-eur", OrganizationID: orgID, FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: amt("0.909091"), RateDate: day(1), IsActive: true},
		{ExchangeRateID: "r-gbp", OrganizationID: orgID, FromCurrencyCode: "GBP", ToCurrencyCode: "USD", Rate: amt("1.333333"), RateDate: day(1), IsActive: true},
		{ExchangeRateID: "r-chf", OrganizationID: orgID, FromCurrencyCode: "USD", ToCurrencyCode: "CHF", Rate: amt("0.9"), RateDate: day(1), IsActive: true},
	}
	for _, r := range rates {
		_, err := store.SaveExchangeRate(ctx, r)
		require.NoError(t, err)
	}
}

func debit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, DebitAmount: amt(amount)}
}

func credit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, CreditAmount: amt(amount)}
}

func journalRequest(typeID string, date time.Time, lines ...dto.JournalLineRequest) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		JournalTypeID: typeID,
		JournalDate:   date,
		CurrencyCode:  "USD",
		Description:   "test journal",
		Lines:         lines,
	}
}

// cashSale is the canonical balanced journal: debit cash, credit revenue.
func cashSale(amount string) dto.CreateJournalRequest {
	return journalRequest(typeGeneral, day(10), debit(accCash, amount), credit(accRevenue, amount))
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.store.FindAccountByID(context.Background(), orgID, accountID)
	require.NoError(t, err)
	return acc.CurrentBalance
}

func (f *ledgerFixture) entryCount(t *testing.T, accountID string) int64 {
	t.Helper()
	n, err := f.store.CountLedgerEntries(context.Background(), orgID, accountID)
	require.NoError(t, err)
	return n
}

// draft creates a draft as the accountant.
func (f *ledgerFixture) draft(t *testing.T, req dto.CreateJournalRequest) *domain.Journal {
	t.Helper()
	j, err := f.svc.Journal.CreateDraft(context.Background(), f.accountant, req)
	require.NoError(t, err)
	return j
}

// posted creates and posts a journal as the accountant.
func (f *ledgerFixture) posted(t *testing.T, req dto.CreateJournalRequest) *domain.Journal {
	t.Helper()
	j, err := f.svc.Journal.PostJournal(context.Background(), f.accountant, req, "")
	require.NoError(t, err)
	return j
}

func listAll() portsrepo.ListJournalsParams {
	return portsrepo.ListJournalsParams{Limit: 100}
}

func dtoListParams(status *domain.JournalStatus) dto.ListJournalsParams {
	return dto.ListJournalsParams{Status: status, Limit: 50}
}
