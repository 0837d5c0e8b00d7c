package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
)

// GetPriceTrend returns one point per order day with a positive total
// quantity. The moving averages are window functions over the already
// aggregated daily weighted prices, bounded by calendar days, so gaps in the
// series never pad the average with zeros.
func (r *Repository) GetPriceTrend(ctx context.Context, filter purchasefilter.Filter) ([]domain.PriceTrendPoint, error) {
	pred, args := filter.Predicate()

	query := `
		WITH daily AS (
			SELECT
				o.date_order::date AS day,
				SUM(l.qty_ordered * l.price_unit) / SUM(l.qty_ordered) AS avg_price
		` + fromOrderLines + `
			WHERE ` + pred + `
			GROUP BY o.date_order::date
			HAVING SUM(l.qty_ordered) > 0
		)
		SELECT
			day,
			avg_price::double precision,
			AVG(avg_price) OVER (
				ORDER BY day
				RANGE BETWEEN INTERVAL '29 days' PRECEDING AND CURRENT ROW
			)::double precision AS ma30,
			AVG(avg_price) OVER (
				ORDER BY day
				RANGE BETWEEN INTERVAL '89 days' PRECEDING AND CURRENT ROW
			)::double precision AS ma90
		FROM daily
		ORDER BY day ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price trend: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PriceTrendPoint, 0)
	for rows.Next() {
		var (
			row domain.PriceTrendPoint
			day time.Time
		)
		if err := rows.Scan(&day, &row.AvgPrice, &row.MA30, &row.MA90); err != nil {
			return nil, fmt.Errorf("scan price trend row: %w", err)
		}
		row.Day = day.Format("2006-01-02")
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price trend rows: %w", err)
	}
	return items, nil
}

func (r *Repository) GetPriceByQuarter(ctx context.Context, filter purchasefilter.Filter) ([]domain.QuarterPriceRow, error) {
	pred, args := filter.Predicate()

	query := `
		SELECT
			EXTRACT(YEAR FROM o.date_order)::int,
			EXTRACT(QUARTER FROM o.date_order)::int,
			(SUM(l.qty_ordered * l.price_unit) / SUM(l.qty_ordered))::double precision
	` + fromOrderLines + `
		WHERE ` + pred + `
		GROUP BY 1, 2
		HAVING SUM(l.qty_ordered) > 0
		ORDER BY 1 ASC, 2 ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price by quarter: %w", err)
	}
	defer rows.Close()

	items := make([]domain.QuarterPriceRow, 0)
	for rows.Next() {
		var row domain.QuarterPriceRow
		if err := rows.Scan(&row.Year, &row.Quarter, &row.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan quarter price row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quarter price rows: %w", err)
	}
	return items, nil
}
