package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleKind tags a voucher rule variant.
type RuleKind string

const (
	RuleMinAmount             RuleKind = "MIN_AMOUNT"
	RuleMaxAmount             RuleKind = "MAX_AMOUNT"
	RuleRequiredReference     RuleKind = "REQUIRED_REFERENCE"
	RuleAllowedAccountNatures RuleKind = "ALLOWED_ACCOUNT_NATURES"
	RuleBankAccountsOnly      RuleKind = "BANK_ACCOUNTS_ONLY"
)

// VoucherRule is a closed set of typed journal-type constraints.
// The unexported marker keeps implementations inside this package.
type VoucherRule interface {
	RuleKind() RuleKind
	isVoucherRule()
}

// MinAmount requires the journal's total debit to be at least Amount.
type MinAmount struct {
	Amount decimal.Decimal
}

// MaxAmount requires the journal's total debit to be at most Amount.
type MaxAmount struct {
	Amount decimal.Decimal
}

// RequiredReference requires a non-empty journal reference.
type RequiredReference struct{}

// AllowedAccountNatures restricts the natures of accounts a line may post to.
type AllowedAccountNatures struct {
	Natures []AccountNature
}

// BankAccountsOnly requires every line to post to a bank-flagged account.
type BankAccountsOnly struct{}

func (MinAmount) RuleKind() RuleKind             { return RuleMinAmount }
func (MaxAmount) RuleKind() RuleKind             { return RuleMaxAmount }
func (RequiredReference) RuleKind() RuleKind     { return RuleRequiredReference }
func (AllowedAccountNatures) RuleKind() RuleKind { return RuleAllowedAccountNatures }
func (BankAccountsOnly) RuleKind() RuleKind      { return RuleBankAccountsOnly }

func (MinAmount) isVoucherRule()             {}
func (MaxAmount) isVoucherRule()             {}
func (RequiredReference) isVoucherRule()     {}
func (AllowedAccountNatures) isVoucherRule() {}
func (BankAccountsOnly) isVoucherRule()      {}

// Allows reports whether n is in the allow-list. An empty list allows everything.
func (r AllowedAccountNatures) Allows(n AccountNature) bool {
	if len(r.Natures) == 0 {
		return true
	}
	for _, allowed := range r.Natures {
		if allowed == n {
			return true
		}
	}
	return false
}

// RuleSpec is the flat, serializable form of a voucher rule.
type RuleSpec struct {
	Kind    RuleKind        `json:"kind" yaml:"kind"`
	Amount  string          `json:"amount,omitempty" yaml:"amount,omitempty"`
	Natures []AccountNature `json:"natures,omitempty" yaml:"natures,omitempty"`
}

// Rule converts a RuleSpec into its typed variant.
func (s RuleSpec) Rule() (VoucherRule, error) {
	switch s.Kind {
	case RuleMinAmount, RuleMaxAmount:
		amount, err := decimal.NewFromString(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("rule %s: invalid amount %q: %w", s.Kind, s.Amount, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("rule %s: amount must not be negative", s.Kind)
		}
		if s.Kind == RuleMinAmount {
			return MinAmount{Amount: amount}, nil
		}
		return MaxAmount{Amount: amount}, nil
	case RuleRequiredReference:
		return RequiredReference{}, nil
	case RuleBankAccountsOnly:
		return BankAccountsOnly{}, nil
	case RuleAllowedAccountNatures:
		for _, n := range s.Natures {
			if !n.Valid() {
				return nil, fmt.Errorf("rule %s: unknown account nature %q", s.Kind, n)
			}
		}
		return AllowedAccountNatures{Natures: s.Natures}, nil
	default:
		return nil, fmt.Errorf("unknown voucher rule kind %q", s.Kind)
	}
}

// SpecOf flattens a typed rule.
func SpecOf(r VoucherRule) RuleSpec {
	switch v := r.(type) {
	case MinAmount:
		return RuleSpec{Kind: RuleMinAmount, Amount: v.Amount.String()}
	case MaxAmount:
		return RuleSpec{Kind: RuleMaxAmount, Amount: v.Amount.String()}
	case AllowedAccountNatures:
		return RuleSpec{Kind: RuleAllowedAccountNatures, Natures: v.Natures}
	default:
		return RuleSpec{Kind: r.RuleKind()}
	}
}

// VoucherRules is an ordered rule list that persists as a JSON array of RuleSpec.
type VoucherRules []VoucherRule

// ParseRules converts specs in order, failing on the first invalid one.
func ParseRules(specs []RuleSpec) (VoucherRules, error) {
	rules := make(VoucherRules, 0, len(specs))
	for _, s := range specs {
		r, err := s.Rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Specs flattens every rule.
func (rs VoucherRules) Specs() []RuleSpec {
	specs := make([]RuleSpec, 0, len(rs))
	for _, r := range rs {
		specs = append(specs, SpecOf(r))
	}
	return specs
}

func (rs VoucherRules) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Specs())
}

func (rs *VoucherRules) UnmarshalJSON(data []byte) error {
	var specs []RuleSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	parsed, err := ParseRules(specs)
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}
