package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/google/uuid"
)

// errReplayed aborts a unit of work whose idempotency key turned out to be used already.
var errReplayed = errors.New("idempotency key already used")

// postingTransactor is the atomic posting core.
type postingTransactor struct {
	BaseService
	txManager   portsrepo.TransactionManager
	journalRepo portsrepo.JournalReader
	idemRepo    portsrepo.IdempotencyReader
	validator   portssvc.ValidationPipelineSvc
	effects     sideEffects
}

// PostingDeps are the collaborators of the posting transactor.
type PostingDeps struct {
	TxManager   portsrepo.TransactionManager
	JournalRepo portsrepo.JournalReader
	IdemRepo    portsrepo.IdempotencyReader
	Validator   portssvc.ValidationPipelineSvc
	Audit       portssvc.AuditLogger
	Publisher   portssvc.EventPublisher
	Cache       portssvc.BalanceCache
}

// NewPostingTransactor creates the posting transactor.
func NewPostingTransactor(deps PostingDeps, opts ...ServiceOption) *postingTransactor {
	s := &postingTransactor{
		BaseService: newBase(opts),
		txManager:   deps.TxManager,
		journalRepo: deps.JournalRepo,
		idemRepo:    deps.IdemRepo,
		validator:   deps.Validator,
	}
	s.effects = sideEffects{base: &s.BaseService, audit: deps.Audit, publisher: deps.Publisher, cache: deps.Cache}
	return s
}

var _ portssvc.PostingTransactorSvc = (*postingTransactor)(nil)

// Post validates and posts a stored journal inside one unit of work.
func (s *postingTransactor) Post(ctx context.Context, actor domain.Actor, journalID, idempotencyKey string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalPost); err != nil {
		return nil, err
	}
	if replay, err := s.replay(ctx, actor.OrganizationID, idempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	var posted *domain.Journal
	var from domain.JournalStatus
	var existingID string
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		j, err := tx.LockJournal(ctx, actor.OrganizationID, journalID)
		if err != nil {
			return err
		}
		from = j.Status
		if !domain.CanTransition(j.Status, domain.StatusPosted) {
			return apperrors.NewInvalidTransitionError(j.JournalID, string(j.Status), string(domain.StatusPosted))
		}
		if j.IsLocked {
			return apperrors.NewLedgerError(apperrors.KindJournalLocked, "journal is locked").ForJournal(j.JournalID)
		}
		existingID, err = s.postInTx(ctx, tx, actor, j, idempotencyKey)
		if err != nil {
			return err
		}
		if existingID != "" {
			return errReplayed
		}
		posted = j
		return nil
	})
	if errors.Is(err, errReplayed) {
		return s.loadReplay(ctx, actor.OrganizationID, existingID, idempotencyKey)
	}
	if err != nil {
		if replay := s.replayAfterRace(ctx, actor.OrganizationID, idempotencyKey, err); replay != nil {
			return replay, nil
		}
		return nil, s.postingFailed(ctx, journalID, err)
	}

	s.afterPost(ctx, actor, posted, from)
	return posted, nil
}

// PostNew inserts a new journal and posts it in the same unit of work.
func (s *postingTransactor) PostNew(ctx context.Context, actor domain.Actor, journal domain.Journal, idempotencyKey string) (*domain.Journal, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalPost); err != nil {
		return nil, err
	}
	if replay, err := s.replay(ctx, actor.OrganizationID, idempotencyKey); replay != nil || err != nil {
		return replay, err
	}

	j := journal
	var existingID string
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertJournal(ctx, j); err != nil {
			return err
		}
		var err error
		existingID, err = s.postInTx(ctx, tx, actor, &j, idempotencyKey)
		if err != nil {
			return err
		}
		if existingID != "" {
			return errReplayed
		}
		return nil
	})
	if errors.Is(err, errReplayed) {
		return s.loadReplay(ctx, actor.OrganizationID, existingID, idempotencyKey)
	}
	if err != nil {
		if replay := s.replayAfterRace(ctx, actor.OrganizationID, idempotencyKey, err); replay != nil {
			return replay, nil
		}
		return nil, s.postingFailed(ctx, j.JournalID, err)
	}

	s.afterPost(ctx, actor, &j, domain.StatusDraft)
	return &j, nil
}

// replay returns the journal an already-used key produced, or nil.
func (s *postingTransactor) replay(ctx context.Context, organizationID, key string) (*domain.Journal, error) {
	if key == "" {
		return nil, nil
	}
	rec, err := s.idemRepo.FindIdempotencyKey(ctx, organizationID, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return s.loadReplay(ctx, organizationID, rec.JournalID, key)
}

// replayAfterRace handles a key committed by a concurrent request after this one
// checked it: the rolled-back attempt answers with the winner's journal.
func (s *postingTransactor) replayAfterRace(ctx context.Context, organizationID, key string, err error) *domain.Journal {
	if key == "" || !errors.Is(err, apperrors.ErrDuplicate) {
		return nil
	}
	j, rerr := s.replay(ctx, organizationID, key)
	if rerr != nil {
		s.LogError(ctx, rerr, "Idempotency key re-read failed", slog.String("idempotency_key", key))
		return nil
	}
	return j
}

func (s *postingTransactor) loadReplay(ctx context.Context, organizationID, journalID, key string) (*domain.Journal, error) {
	j, err := s.journalRepo.FindJournalByID(ctx, organizationID, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for idempotency key: %w", err)
	}
	s.LogInfo(ctx, "Idempotent replay, returning existing posting",
		slog.String("journal_id", journalID),
		slog.String("idempotency_key", key))
	return j, nil
}

// postInTx validates and posts j within tx. It returns the id of an existing
// journal, with no changes made, when the idempotency key was already used.
func (s *postingTransactor) postInTx(ctx context.Context, tx portsrepo.LedgerTx, actor domain.Actor, j *domain.Journal, key string) (string, error) {
	res, err := s.validator.Validate(ctx, tx, j, key)
	if err != nil {
		return "", err
	}
	if res.Existing != nil {
		return res.Existing.JournalID, nil
	}

	if j.JournalNumber == "" {
		seq, err := tx.NextJournalSequence(ctx, res.JournalType.JournalTypeID, res.Period.PeriodID)
		if err != nil {
			return "", fmt.Errorf("failed to assign journal number: %w", err)
		}
		j.JournalNumber = formatJournalNumber(res.JournalType.Code, res.Period.Code, seq)
	}

	now := s.Now()
	j.PeriodID = &res.Period.PeriodID
	j.Status = domain.StatusPosted
	j.IsLocked = true
	j.PostedBy = &actor.UserID
	j.PostedAt = &now
	j.LastUpdatedAt = now
	j.LastUpdatedBy = actor.UserID
	if err := tx.MarkJournalPosted(ctx, *j); err != nil {
		return "", fmt.Errorf("failed to mark journal posted: %w", err)
	}

	accounts, err := tx.LockAccounts(ctx, j.AccountIDs())
	if err != nil {
		return "", err
	}
	for _, line := range j.SortedLines() {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return "", apperrors.NewLedgerError(apperrors.KindInvalidJournalLine, "account %s vanished during posting", line.AccountID).ForLine(line.LineNumber, "accountID")
		}
		balance := acc.CurrentBalance.Add(line.SignedFunctional())
		if err := tx.UpdateAccountBalance(ctx, acc.AccountID, balance, now); err != nil {
			return "", fmt.Errorf("failed to update balance of account %s: %w", acc.AccountID, err)
		}
		acc.CurrentBalance = balance
		accounts[acc.AccountID] = acc

		entry := domain.GeneralLedgerEntry{
			EntryID:          uuid.NewString(),
			OrganizationID:   j.OrganizationID,
			AccountID:        acc.AccountID,
			JournalID:        j.JournalID,
			JournalLineID:    line.LineID,
			LineNumber:       line.LineNumber,
			PeriodID:         res.Period.PeriodID,
			TransactionDate:  j.JournalDate,
			DebitAmount:      line.DebitAmount,
			CreditAmount:     line.CreditAmount,
			FunctionalDebit:  line.FunctionalDebit,
			FunctionalCredit: line.FunctionalCredit,
			BalanceAfter:     balance,
			CurrencyCode:     j.CurrencyCode,
			ExchangeRate:     j.ExchangeRate,
			DepartmentID:     line.DepartmentID,
			ProjectID:        line.ProjectID,
			CostCenterID:     line.CostCenterID,
			SourceModule:     j.SourceModule,
			CreatedBy:        actor.UserID,
			CreatedAt:        now,
		}
		if _, err := tx.AppendLedgerEntry(ctx, entry); err != nil {
			return "", fmt.Errorf("failed to append ledger entry for line %d: %w", line.LineNumber, err)
		}
	}

	if key != "" {
		rec := domain.IdempotencyRecord{OrganizationID: j.OrganizationID, Key: key, JournalID: j.JournalID, CreatedAt: now}
		if err := tx.SaveIdempotencyKey(ctx, rec); err != nil {
			return "", err
		}
	}
	return "", nil
}

// postingFailed logs at the level the failure deserves and passes it on.
func (s *postingTransactor) postingFailed(ctx context.Context, journalID string, err error) error {
	if apperrors.KindOf(err) != "" || errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, err, "Posting rejected", slog.String("journal_id", journalID))
		return err
	}
	s.LogError(ctx, err, "Posting failed, transaction rolled back", slog.String("journal_id", journalID))
	return fmt.Errorf("failed to post journal %s: %w", journalID, err)
}

func (s *postingTransactor) afterPost(ctx context.Context, actor domain.Actor, j *domain.Journal, from domain.JournalStatus) {
	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", j.JournalID),
		slog.String("journal_number", j.JournalNumber),
		slog.String("total", j.TotalDebit.String()))
	s.effects.invalidateBalances(ctx, j.OrganizationID)
	s.effects.record(ctx, actor, domain.SubjectJournal, j.JournalID, domain.AuditJournalPosted, map[string]any{
		"from":           string(from),
		"journal_number": j.JournalNumber,
		"total_debit":    j.TotalDebit.String(),
	})
	s.effects.notify(ctx, actor, j, from, "")
}

func formatJournalNumber(typeCode, periodCode string, seq int64) string {
	return fmt.Sprintf("%s-%s-%06d", typeCode, periodCode, seq)
}
