package domain

// JournalKind classifies a journal type and brings built-in voucher rules with it.
type JournalKind string

const (
	KindGeneral    JournalKind = "GENERAL"
	KindContra     JournalKind = "CONTRA"
	KindDebitNote  JournalKind = "DEBIT_NOTE"
	KindCreditNote JournalKind = "CREDIT_NOTE"
	KindPayment    JournalKind = "PAYMENT"
	KindReceipt    JournalKind = "RECEIPT"
	KindSales      JournalKind = "SALES"
	KindPurchase   JournalKind = "PURCHASE"
)

// Valid reports whether k is a known kind.
func (k JournalKind) Valid() bool {
	switch k {
	case KindGeneral, KindContra, KindDebitNote, KindCreditNote,
		KindPayment, KindReceipt, KindSales, KindPurchase:
		return true
	}
	return false
}

// JournalType is a voucher type such as "Journal Voucher" or "Contra".
type JournalType struct {
	JournalTypeID  string       `json:"journalTypeID"`
	OrganizationID string       `json:"organizationID"`
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Kind           JournalKind  `json:"kind"`
	Rules          VoucherRules `json:"rules"`
	IsActive       bool         `json:"isActive"`
	AuditFields
}

// EffectiveRules returns the kind's built-in rules followed by the declared ones.
func (t JournalType) EffectiveRules() VoucherRules {
	var rules VoucherRules
	switch t.Kind {
	case KindContra:
		rules = append(rules, BankAccountsOnly{})
	case KindDebitNote, KindCreditNote:
		rules = append(rules, RequiredReference{})
	}
	return append(rules, t.Rules...)
}
