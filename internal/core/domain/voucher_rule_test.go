package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherRules_UnmarshalJSON(t *testing.T) {
	raw := `[
		{"kind":"MIN_AMOUNT","amount":"10.50"},
		{"kind":"ALLOWED_ACCOUNT_NATURES","natures":["ASSET","EXPENSE"]},
		{"kind":"REQUIRED_REFERENCE"}
	]`

	var rules domain.VoucherRules
	require.NoError(t, json.Unmarshal([]byte(raw), &rules))
	require.Len(t, rules, 3)

	minRule, ok := rules[0].(domain.MinAmount)
	require.True(t, ok)
	assert.True(t, minRule.Amount.Equal(decimal.RequireFromString("10.5")))

	natures, ok := rules[1].(domain.AllowedAccountNatures)
	require.True(t, ok)
	assert.True(t, natures.Allows(domain.Expense))
	assert.False(t, natures.Allows(domain.Income))

	assert.Equal(t, domain.RuleRequiredReference, rules[2].RuleKind())
}

func TestVoucherRules_UnmarshalJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown kind", `[{"kind":"SOMETHING"}]`},
		{"bad amount", `[{"kind":"MAX_AMOUNT","amount":"ten"}]`},
		{"negative amount", `[{"kind":"MIN_AMOUNT","amount":"-1"}]`},
		{"unknown nature", `[{"kind":"ALLOWED_ACCOUNT_NATURES","natures":["CASH"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rules domain.VoucherRules
			assert.Error(t, json.Unmarshal([]byte(tt.raw), &rules))
		})
	}
}

func TestJournalType_EffectiveRules(t *testing.T) {
	contra := domain.JournalType{Kind: domain.KindContra, Rules: domain.VoucherRules{domain.MaxAmount{Amount: decimal.NewFromInt(500)}}}
	rules := contra.EffectiveRules()
	require.Len(t, rules, 2)
	assert.Equal(t, domain.RuleBankAccountsOnly, rules[0].RuleKind())
	assert.Equal(t, domain.RuleMaxAmount, rules[1].RuleKind())

	note := domain.JournalType{Kind: domain.KindCreditNote}
	require.Len(t, note.EffectiveRules(), 1)
	assert.Equal(t, domain.RuleRequiredReference, note.EffectiveRules()[0].RuleKind())

	assert.Empty(t, domain.JournalType{Kind: domain.KindGeneral}.EffectiveRules())
}

func TestAllowedAccountNatures_EmptyAllowsAll(t *testing.T) {
	assert.True(t, domain.AllowedAccountNatures{}.Allows(domain.Equity))
}
