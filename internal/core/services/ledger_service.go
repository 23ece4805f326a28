package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const trialBalanceCacheKey = "all"

// ledgerService serves balances, ledger pages and chain verification.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	cache       portssvc.BalanceCache
}

// NewLedgerService creates the ledger query service. cache may be nil.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, cache portssvc.BalanceCache, opts ...ServiceOption) portssvc.LedgerSvc {
	return &ledgerService{
		BaseService: newBase(opts),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// GetAccountBalance returns the stored balance, from cache when possible.
func (s *ledgerService) GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string) (*domain.AccountBalance, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}

	var cached domain.AccountBalance
	if s.cacheGet(ctx, actor.OrganizationID, portssvc.CacheAccountBalance, accountID, &cached) {
		return &cached, nil
	}

	acc, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, accountID)
	if err != nil {
		return nil, err
	}
	count, err := s.ledgerRepo.CountLedgerEntries(ctx, actor.OrganizationID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	balance := &domain.AccountBalance{
		AccountID:      acc.AccountID,
		OrganizationID: acc.OrganizationID,
		Nature:         acc.Nature,
		Balance:        acc.CurrentBalance,
		EntryCount:     count,
	}
	s.cacheSet(ctx, actor.OrganizationID, portssvc.CacheAccountBalance, accountID, balance)
	return balance, nil
}

// ListLedgerEntries pages an account's entries newest first.
func (s *ledgerService) ListLedgerEntries(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, nil, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, accountID); err != nil {
		return nil, nil, err
	}
	entries, next, err := s.ledgerRepo.ListLedgerEntries(ctx, actor.OrganizationID, accountID, pagination.NormalizeLimit(limit), nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, next, nil
}

// VerifyAccountChain replays an account's entries from zero.
func (s *ledgerService) VerifyAccountChain(ctx context.Context, actor domain.Actor, accountID string) (*domain.ChainVerification, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	acc, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, accountID)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, *acc)
}

// VerifyOrganization verifies every account of the organization.
func (s *ledgerService) VerifyOrganization(ctx context.Context, actor domain.Actor) ([]domain.ChainVerification, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, actor.OrganizationID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	results := make([]domain.ChainVerification, 0, len(accounts))
	for _, acc := range accounts {
		res, err := s.verify(ctx, acc)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *ledgerService) verify(ctx context.Context, acc domain.Account) (*domain.ChainVerification, error) {
	entries, err := s.ledgerRepo.ListAccountChain(ctx, acc.OrganizationID, acc.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger chain: %w", err)
	}
	res := domain.VerifyChain(acc.AccountID, entries, acc.CurrentBalance)
	if !res.Reconciles() {
		s.GetLogger(ctx).Warn("Ledger chain does not reconcile",
			slog.String("account_id", acc.AccountID),
			slog.Int("breaks", len(res.Breaks)),
			slog.String("replayed", res.ReplayedBalance.String()),
			slog.String("stored", res.StoredBalance.String()))
	}
	return &res, nil
}

// TrialBalance lists every account's balance as debit and credit columns.
func (s *ledgerService) TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}

	var cached domain.TrialBalance
	if s.cacheGet(ctx, actor.OrganizationID, portssvc.CacheTrialBalance, trialBalanceCacheKey, &cached) {
		return &cached, nil
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, actor.OrganizationID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tb := &domain.TrialBalance{
		OrganizationID: actor.OrganizationID,
		Rows:           make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	for _, acc := range accounts {
		debit, credit := accounting.TrialBalanceColumns(acc.CurrentBalance)
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Nature:      acc.Nature,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}
	s.cacheSet(ctx, actor.OrganizationID, portssvc.CacheTrialBalance, trialBalanceCacheKey, tb)
	return tb, nil
}

// cacheGet treats cache failures as misses.
func (s *ledgerService) cacheGet(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, organizationID, kind, key, dest)
	if err != nil {
		s.LogError(ctx, err, "Balance cache read failed", slog.String("kind", string(kind)))
		return false
	}
	if hit {
		s.LogDebug(ctx, "Balance cache hit", slog.String("kind", string(kind)), slog.String("key", key))
	}
	return hit
}

func (s *ledgerService) cacheSet(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, organizationID, kind, key, value); err != nil {
		s.LogError(ctx, err, "Balance cache write failed", slog.String("kind", string(kind)))
	}
}
