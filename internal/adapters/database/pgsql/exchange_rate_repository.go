package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxExchangeRateRepository struct {
	db dbtx
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, organization_id, from_currency_code, to_currency_code, rate, date_effective, source,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.OrganizationID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Rate,
		&m.DateEffective,
		&m.Source,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return mapping.ToDomainExchangeRate(m), nil
}

// SaveExchangeRate upserts on (organization, pair, day). The original row keeps its ID and creation audit.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (organization_id, from_currency_code, to_currency_code, date_effective)
		DO UPDATE SET rate = EXCLUDED.rate, source = EXCLUDED.source,
		              last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		m.ExchangeRateID,
		m.OrganizationID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.DateEffective,
		m.Source,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "failed to save exchange rate %s/%s", m.FromCurrencyCode, m.ToCurrencyCode)
	}
	return nil
}

// FindLatestExchangeRate returns the newest rate dated on or before onOrBefore.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, organizationID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND from_currency_code = $2 AND to_currency_code = $3 AND date_effective <= $4
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.db.QueryRow(ctx, query, organizationID, fromCode, toCode, onOrBefore))
	if err != nil {
		return nil, wrapReadError(err, "exchange rate", fromCode+"/"+toCode)
	}
	return &rate, nil
}

// buildListExchangeRatesQuery renders the filtered list query.
func buildListExchangeRatesQuery(organizationID string, filter domain.ExchangeRateFilter) (string, []any) {
	var sb strings.Builder
	args := []any{organizationID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(`SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE organization_id = $1`)
	if filter.FromCurrencyCode != "" {
		sb.WriteString(" AND from_currency_code = " + next(filter.FromCurrencyCode))
	}
	if filter.ToCurrencyCode != "" {
		sb.WriteString(" AND to_currency_code = " + next(filter.ToCurrencyCode))
	}
	if filter.AsOf != nil {
		sb.WriteString(" AND date_effective <= " + next(*filter.AsOf))
	}
	sb.WriteString(" ORDER BY date_effective DESC, from_currency_code, to_currency_code;")
	return sb.String(), args
}

// ListExchangeRates returns the organization's rates newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	query, args := buildListExchangeRatesQuery(organizationID, filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return rates, nil
}
