package services

import (
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
)

// Collaborators are the non-repository dependencies of the engine. Any may be nil.
type Collaborators struct {
	Audit     portssvc.AuditLogger
	Publisher portssvc.EventPublisher
	Cache     portssvc.BalanceCache
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators, opts ...ServiceOption) *portssvc.ServiceContainer {
	if collab.Audit == nil && repos.AuditRepo != nil {
		collab.Audit = NewRepositoryAuditLogger(repos.AuditRepo)
	}

	container := &portssvc.ServiceContainer{}
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, cfg.StrictExchangeRates, opts...)
	container.Period = NewPeriodService(repos.PeriodRepo, collab.Audit, opts...)
	container.JournalType = NewJournalTypeService(repos.JournalTypeRepo, opts...)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo, collab.Cache, opts...)

	validator := NewValidationPipeline(opts...)
	posting := NewPostingTransactor(PostingDeps{
		TxManager:   repos.TxManager,
		JournalRepo: repos.JournalRepo,
		IdemRepo:    repos.IdempotencyRepo,
		Validator:   validator,
		Audit:       collab.Audit,
		Publisher:   collab.Publisher,
		Cache:       collab.Cache,
	}, opts...)
	reversal := NewReversalEngine(posting, opts...)

	container.Journal = NewJournalService(JournalDeps{
		Repos:     repos,
		Resolver:  container.ExchangeRate,
		Validator: validator,
		Posting:   posting,
		Audit:     collab.Audit,
	}, opts...)
	container.Workflow = NewWorkflowService(WorkflowDeps{
		JournalRepo: repos.JournalRepo,
		Posting:     posting,
		Reversal:    reversal,
		Audit:       collab.Audit,
		Publisher:   collab.Publisher,
	}, opts...)

	return container
}
