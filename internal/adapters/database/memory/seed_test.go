package memory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
organizations:
  - id: org-1
    name: Acme
    functionalCurrency: USD
    accounts:
      - id: acc-cash
        code: "1000"
        name: Cash
        nature: ASSET
        bank: true
      - id: acc-rent
        code: "6100"
        name: Rent
        nature: EXPENSE
        currency: EUR
        requires: [department, costCenter]
    periods:
      - id: p-2026-10
        code: "2026-10"
        start: 2026-10-01
        end: 2026-10-31
    journalTypes:
      - id: type-pv
        code: PV
        name: Payment Voucher
        kind: PAYMENT
        rules:
          - kind: MAX_AMOUNT
            amount: 5000
          - kind: BANK_ACCOUNTS_ONLY
`

func TestLoadSeed(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.LoadSeed(ctx, strings.NewReader(seedYAML), now))

	org, err := s.FindOrganizationByID(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "USD", org.FunctionalCurrency)

	cash, err := s.FindAccountByID(ctx, "org-1", "acc-cash")
	require.NoError(t, err)
	assert.True(t, cash.IsBank)
	assert.Equal(t, "USD", cash.CurrencyCode, "currency defaults to the functional currency")
	assert.True(t, cash.CurrentBalance.IsZero())

	rent, err := s.FindAccountByID(ctx, "org-1", "acc-rent")
	require.NoError(t, err)
	assert.True(t, rent.RequiresDepartment)
	assert.True(t, rent.RequiresCostCenter)
	assert.False(t, rent.RequiresProject)

	period, err := s.FindPeriodCovering(ctx, "org-1", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, period.Status)

	jt, err := s.FindJournalTypeByCode(ctx, "org-1", "PV")
	require.NoError(t, err)
	assert.Len(t, jt.Rules, 2)
	assert.True(t, jt.IsActive)
}

func TestLoadSeed_RejectsUnknownDimension(t *testing.T) {
	bad := `
organizations:
  - id: org-1
    functionalCurrency: USD
    accounts:
      - code: "1000"
        nature: ASSET
        requires: [region]
`
	err := memory.NewStore().LoadSeed(context.Background(), strings.NewReader(bad), time.Now())
	assert.ErrorContains(t, err, "unknown dimension")
}

func TestLoadSeed_RejectsUnknownRule(t *testing.T) {
	bad := `
organizations:
  - id: org-1
    functionalCurrency: USD
    journalTypes:
      - code: JV
        kind: GENERAL
        rules:
          - kind: NOT_A_RULE
`
	err := memory.NewStore().LoadSeed(context.Background(), strings.NewReader(bad), time.Now())
	assert.Error(t, err)
}

func TestLoadSeed_RejectsOpeningBalance(t *testing.T) {
	bad := `
organizations:
  - id: org-1
    functionalCurrency: USD
    accounts:
      - id: acc-cash
        code: "1000"
        nature: ASSET
        currentBalance: "500.00"
`
	s := memory.NewStore()
	err := s.LoadSeed(context.Background(), strings.NewReader(bad), time.Now())
	assert.ErrorContains(t, err, "currentBalance")

	_, err = s.FindAccountByID(context.Background(), "org-1", "acc-cash")
	assert.Error(t, err)
}
