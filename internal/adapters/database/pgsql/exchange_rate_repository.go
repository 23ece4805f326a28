package pgsql

import (
	"context"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `
	exchange_rate_id, organization_id, from_currency_code, to_currency_code, rate, rate_date, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange rate ports using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row rowScanner) (domain.ExchangeRate, error) {
	var r domain.ExchangeRate
	err := row.Scan(
		&r.ExchangeRateID, &r.OrganizationID, &r.FromCurrencyCode, &r.ToCurrencyCode, &r.Rate, &r.RateDate, &r.IsActive,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy,
	)
	return r, err
}

// SaveExchangeRate inserts a rate, replacing the one already stored for the same pair and day.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	fromCurrency := strings.ToUpper(rate.FromCurrencyCode)
	toCurrency := strings.ToUpper(rate.ToCurrencyCode)
	if fromCurrency == toCurrency {
		return nil, apperrors.NewValidationError("from and to currencies cannot be the same")
	}

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (organization_id, from_currency_code, to_currency_code, rate_date)
		DO UPDATE SET rate = EXCLUDED.rate, is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + exchangeRateColumns + `;
	`
	stored, err := scanExchangeRate(r.Pool.QueryRow(ctx, query,
		rate.ExchangeRateID, rate.OrganizationID, fromCurrency, toCurrency, rate.Rate,
		domain.DateOnly(rate.RateDate), rate.IsActive,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	))
	if err != nil {
		return nil, internalError("failed to save exchange rate", err)
	}
	return &stored, nil
}

// FindLatestRate returns the active rate with the greatest rate_date on or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND from_currency_code = $2 AND to_currency_code = $3
		  AND is_active AND rate_date <= $4
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query,
		organizationID, strings.ToUpper(fromCurrency), strings.ToUpper(toCurrency), domain.DateOnly(asOf)))
	if err != nil {
		return nil, notFoundOr(err, "exchange rate "+fromCurrency+"/"+toCurrency+" not found", "failed to find exchange rate")
	}
	return &rate, nil
}

// ListExchangeRates lists an organization's rates, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1
		ORDER BY rate_date DESC, from_currency_code, to_currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, internalError("failed to list exchange rates", err)
	}
	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, internalError("error iterating exchange rates", err)
	}
	return rates, nil
}
