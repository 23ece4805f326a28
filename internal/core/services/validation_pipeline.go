package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
)

// repoValidationSource reads validation inputs outside of a posting transaction.
type repoValidationSource struct {
	periods     portsrepo.PeriodReader
	types       portsrepo.JournalTypeReader
	accounts    portsrepo.AccountReader
	idempotency portsrepo.IdempotencyReader
}

// NewValidationSource composes the plain repositories into a ValidationSource.
func NewValidationSource(repos portsrepo.RepositoryProvider) portsrepo.ValidationSource {
	return &repoValidationSource{
		periods:     repos.PeriodRepo,
		types:       repos.JournalTypeRepo,
		accounts:    repos.AccountRepo,
		idempotency: repos.IdempotencyRepo,
	}
}

func (r *repoValidationSource) FindPeriodCovering(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	return r.periods.FindPeriodCovering(ctx, organizationID, date)
}

func (r *repoValidationSource) FindJournalTypeByID(ctx context.Context, journalTypeID string) (*domain.JournalType, error) {
	return r.types.FindJournalTypeByID(ctx, journalTypeID)
}

func (r *repoValidationSource) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.accounts.FindAccountsByIDs(ctx, accountIDs)
}

func (r *repoValidationSource) FindIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.IdempotencyRecord, error) {
	return r.idempotency.FindIdempotencyKey(ctx, organizationID, key)
}

// validationPipeline runs the pre-posting checks in a fixed order and stops at the first failure.
type validationPipeline struct {
	BaseService
}

// NewValidationPipeline creates the validation pipeline.
func NewValidationPipeline(opts ...ServiceOption) portssvc.ValidationPipelineSvc {
	return &validationPipeline{BaseService: newBase(opts)}
}

var _ portssvc.ValidationPipelineSvc = (*validationPipeline)(nil)

// Validate runs, in order: period, balance, voucher rules, account natures,
// dimensions, precision, duplicate submission.
func (p *validationPipeline) Validate(ctx context.Context, src portsrepo.ValidationSource, j *domain.Journal, idempotencyKey string) (*portssvc.ValidationResult, error) {
	res := &portssvc.ValidationResult{}
	err := p.run(ctx, src, j, idempotencyKey, res)
	if err != nil {
		var le *apperrors.LedgerError
		if errors.As(err, &le) {
			if le.JournalID == "" {
				le.JournalID = j.JournalID
			}
			p.LogWarn(ctx, err, "Journal failed validation",
				slog.String("journal_id", j.JournalID),
				slog.String("kind", string(le.Kind)))
		}
		return nil, err
	}
	return res, nil
}

func (p *validationPipeline) run(ctx context.Context, src portsrepo.ValidationSource, j *domain.Journal, key string, res *portssvc.ValidationResult) error {
	period, err := requireOpenPeriod(ctx, src, j.OrganizationID, j.JournalDate)
	if err != nil {
		return err
	}
	res.Period = period

	if err := checkBalance(j); err != nil {
		return err
	}

	journalType, accounts, err := p.loadReferences(ctx, src, j)
	if err != nil {
		return err
	}
	res.JournalType = journalType
	res.Accounts = accounts

	rules := journalType.EffectiveRules()
	if err := checkVoucherRules(j, journalType, rules, accounts); err != nil {
		return err
	}
	if err := checkAccountNatures(j, rules, accounts); err != nil {
		return err
	}
	if err := checkDimensions(j, accounts); err != nil {
		return err
	}
	if err := checkPrecision(j); err != nil {
		return err
	}

	if key != "" {
		existing, err := src.FindIdempotencyKey(ctx, j.OrganizationID, key)
		switch {
		case err == nil:
			res.Existing = existing
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to look up idempotency key: %w", err)
		}
	}
	return nil
}

// checkBalance validates line structure then compares recomputed totals.
func checkBalance(j *domain.Journal) error {
	if len(j.Lines) < 2 {
		return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "a journal needs at least two lines, got %d", len(j.Lines))
	}
	seen := make(map[int]struct{}, len(j.Lines))
	for _, l := range j.SortedLines() {
		if _, dup := seen[l.LineNumber]; dup {
			return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "duplicate line number").ForLine(l.LineNumber, "lineNumber")
		}
		seen[l.LineNumber] = struct{}{}
		if l.DebitAmount.IsNegative() {
			return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "debit amount is negative").ForLine(l.LineNumber, "debitAmount")
		}
		if l.CreditAmount.IsNegative() {
			return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "credit amount is negative").ForLine(l.LineNumber, "creditAmount")
		}
		if !l.DebitAmount.IsZero() && !l.CreditAmount.IsZero() {
			return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "line has both a debit and a credit").ForLine(l.LineNumber, "debitAmount")
		}
		if l.DebitAmount.IsZero() && l.CreditAmount.IsZero() {
			return apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "line has neither a debit nor a credit").ForLine(l.LineNumber, "debitAmount")
		}
	}

	j.RecomputeTotals()
	if !j.TotalDebit.Equal(j.TotalCredit) {
		return apperrors.NewLedgerError(apperrors.KindImbalancedJournal,
			"total debit %s does not equal total credit %s", j.TotalDebit.String(), j.TotalCredit.String())
	}
	fd, fc := domain.SumFunctional(j.Lines)
	if !fd.Equal(fc) {
		le := apperrors.NewLedgerError(apperrors.KindImbalancedJournal,
			"functional debit %s does not equal functional credit %s", fd.String(), fc.String())
		le.Field = "functional"
		return le
	}
	return nil
}

// loadReferences loads the journal type and every line account. Unknown references are line errors.
// A reversal may land on an account deactivated after the original posted.
func (p *validationPipeline) loadReferences(ctx context.Context, src portsrepo.ValidationSource, j *domain.Journal) (*domain.JournalType, map[string]domain.Account, error) {
	journalType, err := src.FindJournalTypeByID(ctx, j.JournalTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed, "journal type %s does not exist", j.JournalTypeID)
		}
		return nil, nil, fmt.Errorf("failed to load journal type: %w", err)
	}

	accounts, err := src.FindAccountsByIDs(ctx, j.AccountIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, l := range j.SortedLines() {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, nil, apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "account %s does not exist", l.AccountID).ForLine(l.LineNumber, "accountID")
		}
		if !acc.IsActive && !j.IsReversal {
			return nil, nil, apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "account %s is inactive", acc.Code).ForLine(l.LineNumber, "accountID")
		}
	}
	return journalType, accounts, nil
}

// checkVoucherRules evaluates type rules other than nature allow-lists, plus organization ownership.
func checkVoucherRules(j *domain.Journal, jt *domain.JournalType, rules domain.VoucherRules, accounts map[string]domain.Account) error {
	if jt.OrganizationID != j.OrganizationID {
		return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed, "journal type %s belongs to another organization", jt.Code)
	}
	if !jt.IsActive {
		return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed, "journal type %s is inactive", jt.Code)
	}
	lines := j.SortedLines()
	for _, l := range lines {
		if accounts[l.AccountID].OrganizationID != j.OrganizationID {
			return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed,
				"account %s belongs to another organization", l.AccountID).ForLine(l.LineNumber, "accountID")
		}
	}

	for _, rule := range rules {
		switch r := rule.(type) {
		case domain.MinAmount:
			if j.TotalDebit.LessThan(r.Amount) {
				return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed,
					"%s journals must total at least %s", jt.Code, r.Amount.String())
			}
		case domain.MaxAmount:
			if j.TotalDebit.GreaterThan(r.Amount) {
				return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed,
					"%s journals must total at most %s", jt.Code, r.Amount.String())
			}
		case domain.RequiredReference:
			if strings.TrimSpace(j.Reference) == "" {
				le := apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed, "%s journals require a source reference", jt.Code)
				le.Field = "reference"
				return le
			}
		case domain.BankAccountsOnly:
			for _, l := range lines {
				if acc := accounts[l.AccountID]; !acc.IsBank {
					return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed,
						"%s journals may only use bank accounts, %s is not one", jt.Code, acc.Code).ForLine(l.LineNumber, "accountID")
				}
			}
		case domain.AllowedAccountNatures:
			// checked by checkAccountNatures
		default:
			return apperrors.NewLedgerError(apperrors.KindVoucherTypeValidationFailed, "unsupported voucher rule %s", rule.RuleKind())
		}
	}
	return nil
}

func checkAccountNatures(j *domain.Journal, rules domain.VoucherRules, accounts map[string]domain.Account) error {
	for _, rule := range rules {
		allowed, ok := rule.(domain.AllowedAccountNatures)
		if !ok {
			continue
		}
		for _, l := range j.SortedLines() {
			acc := accounts[l.AccountID]
			if !allowed.Allows(acc.Nature) {
				return apperrors.NewLedgerError(apperrors.KindAccountTypeMismatch,
					"account %s has nature %s, not allowed for this journal type", acc.Code, acc.Nature).ForLine(l.LineNumber, "accountID")
			}
		}
	}
	return nil
}

func checkDimensions(j *domain.Journal, accounts map[string]domain.Account) error {
	missing := func(v *string) bool { return v == nil || strings.TrimSpace(*v) == "" }
	for _, l := range j.SortedLines() {
		acc := accounts[l.AccountID]
		switch {
		case acc.RequiresDepartment && missing(l.DepartmentID):
			return apperrors.NewLedgerError(apperrors.KindMissingDimension, "account %s requires a department", acc.Code).ForLine(l.LineNumber, "departmentID")
		case acc.RequiresProject && missing(l.ProjectID):
			return apperrors.NewLedgerError(apperrors.KindMissingDimension, "account %s requires a project", acc.Code).ForLine(l.LineNumber, "projectID")
		case acc.RequiresCostCenter && missing(l.CostCenterID):
			return apperrors.NewLedgerError(apperrors.KindMissingDimension, "account %s requires a cost center", acc.Code).ForLine(l.LineNumber, "costCenterID")
		}
	}
	return nil
}

func checkPrecision(j *domain.Journal) error {
	for _, l := range j.SortedLines() {
		fields := []struct {
			name  string
			value string
			ok    bool
		}{
			{"debitAmount", l.DebitAmount.String(), domain.IsQuantized(l.DebitAmount)},
			{"creditAmount", l.CreditAmount.String(), domain.IsQuantized(l.CreditAmount)},
			{"functionalDebit", l.FunctionalDebit.String(), domain.IsQuantized(l.FunctionalDebit)},
			{"functionalCredit", l.FunctionalCredit.String(), domain.IsQuantized(l.FunctionalCredit)},
		}
		for _, f := range fields {
			if !f.ok {
				return apperrors.NewLedgerError(apperrors.KindInvalidAmountPrecision,
					"%s %s has more than %d decimal places", f.name, f.value, domain.AmountPlaces).ForLine(l.LineNumber, f.name)
			}
		}
	}
	return nil
}
