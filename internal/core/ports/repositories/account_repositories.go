package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}

// AccountReader defines read operations for account data.
// Accounts are owned by another subsystem; the engine never creates them.
type AccountReader interface {
	// FindAccountByID retrieves an account scoped to its organization.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves accounts keyed by id. Missing ids are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves an organization's accounts ordered by code.
	// Deactivated accounts keep their balances and history, so reporting asks for them too.
	ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error)
}
