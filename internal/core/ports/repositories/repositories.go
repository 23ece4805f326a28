package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo OrganizationReader
	AccountRepo      AccountReader
	PeriodRepo       PeriodRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	JournalTypeRepo  JournalTypeRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	LedgerRepo       LedgerReader
	IdempotencyRepo  IdempotencyReader
	AuditRepo        AuditRepository
	TxManager        TransactionManager
}
