package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is the Scan half of pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const accountColumns = `
	account_id, organization_id, code, name, nature, currency_code,
	is_bank, requires_department, requires_project, requires_cost_center,
	is_active, current_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates the read-only account and organization repository.
// Accounts are maintained by the chart-of-accounts subsystem; only the posting transaction writes balances.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.AccountReader      = (*PgxAccountRepository)(nil)
	_ portsrepo.OrganizationReader = (*PgxAccountRepository)(nil)
)

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.OrganizationID, &a.Code, &a.Name, &a.Nature, &a.CurrencyCode,
		&a.IsBank, &a.RequiresDepartment, &a.RequiresProject, &a.RequiresCostCenter,
		&a.IsActive, &a.CurrentBalance, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

// FindOrganizationByID retrieves an organization and its functional currency.
func (r *PgxAccountRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, functional_currency, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var org domain.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&org.OrganizationID, &org.Name, &org.FunctionalCurrency,
		&org.CreatedAt, &org.CreatedBy, &org.LastUpdatedAt, &org.LastUpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr(err, "organization "+organizationID+" not found", "failed to find organization")
	}
	return &org, nil
}

// FindAccountByID retrieves an account scoped to its organization.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = $2;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, organizationID, accountID))
	if err != nil {
		return nil, notFoundOr(err, "account "+accountID+" not found", "failed to find account")
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves accounts keyed by id, across organizations.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return findAccountsByIDs(ctx, r.Pool, accountIDs, false)
}

// ListAccounts retrieves the accounts of an organization ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND (is_active OR $2) ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, organizationID, includeInactive)
	if err != nil {
		return nil, internalError("failed to list accounts", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, internalError("failed to scan accounts", err)
	}
	return accounts, nil
}

// findAccountsByIDs loads accounts by id. With forUpdate the rows are locked in ascending id order.
func findAccountsByIDs(ctx context.Context, q querier, accountIDs []string, forUpdate bool) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, internalError("failed to load accounts", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, internalError("failed to scan accounts", err)
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}
