package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
)

func (r *Repository) GetKPIs(ctx context.Context, filter purchasefilter.Filter) (domain.KPISummary, error) {
	pred, args := filter.Predicate()

	query := `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(l.price_subtotal), 0)::double precision,
			COALESCE(SUM(l.qty_received * l.price_unit), 0)::double precision,
			COALESCE(SUM(l.qty_invoiced * l.price_unit), 0)::double precision,
			COUNT(DISTINCT date_trunc('month', o.date_order))::int
	` + fromOrderLines + `
		WHERE ` + pred

	var summary domain.KPISummary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.LineCount,
		&summary.OrderedValue,
		&summary.ReceivedValue,
		&summary.InvoicedValue,
		&summary.DistinctMonths,
	); err != nil {
		return domain.KPISummary{}, fmt.Errorf("query kpis: %w", err)
	}

	summary.PctReceived = pct(summary.ReceivedValue, summary.OrderedValue)
	summary.PctInvoiced = pct(summary.InvoicedValue, summary.OrderedValue)
	return summary, nil
}

func (r *Repository) GetMonthlyByCategory(ctx context.Context, filter purchasefilter.Filter) ([]domain.MonthlyCategoryRow, error) {
	pred, args := filter.Predicate()

	query := `
		SELECT
			to_char(date_trunc('month', o.date_order), 'YYYY-MM') AS month,
			COALESCE(NULLIF(split_part(l.category_path, ' / ', 1), ''), 'Uncategorized') AS category,
			COALESCE(SUM(l.price_subtotal), 0)::double precision,
			COUNT(*)::int
	` + fromOrderLines + `
		WHERE ` + pred + `
		GROUP BY month, category
		ORDER BY month ASC, category ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query monthly by category: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MonthlyCategoryRow, 0)
	for rows.Next() {
		var row domain.MonthlyCategoryRow
		if err := rows.Scan(&row.Month, &row.Category, &row.OrderedValue, &row.LineCount); err != nil {
			return nil, fmt.Errorf("scan monthly row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly rows: %w", err)
	}
	return items, nil
}

// GetCategoryBreakdown aggregates by the category segment at the given level.
// The level is computed once at the request boundary, not re-derived here.
func (r *Repository) GetCategoryBreakdown(ctx context.Context, filter purchasefilter.Filter, level int) ([]domain.CategoryBreakdownRow, error) {
	if level < 1 || level > 3 {
		level = 1
	}
	pred, args := filter.Predicate()

	// split_part's position argument cannot be a bind parameter inside a
	// GROUP BY expression; level comes from a fixed 1..3 set above.
	segment := "NULLIF(split_part(l.category_path, ' / ', " + strconv.Itoa(level) + "), '')"

	query := `
		SELECT
			COALESCE(` + segment + `, 'Uncategorized') AS category,
			COALESCE(SUM(l.price_subtotal), 0)::double precision AS ordered_value,
			COUNT(*)::int
	` + fromOrderLines + `
		WHERE ` + pred + `
		GROUP BY category
		ORDER BY ordered_value DESC, category ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category breakdown: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CategoryBreakdownRow, 0)
	for rows.Next() {
		row := domain.CategoryBreakdownRow{Level: level}
		if err := rows.Scan(&row.Category, &row.OrderedValue, &row.LineCount); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return items, nil
}

func (r *Repository) GetUomBreakdown(ctx context.Context, filter purchasefilter.Filter) ([]domain.UomBreakdownRow, error) {
	pred, args := filter.Predicate()

	query := `
		SELECT
			` + normalizedUom + ` AS uom,
			COUNT(*)::int,
			COALESCE(SUM(l.qty_ordered), 0)::double precision,
			COALESCE(SUM(l.qty_received), 0)::double precision,
			COALESCE(SUM(l.price_subtotal), 0)::double precision AS ordered_value
	` + fromOrderLines + `
		WHERE ` + pred + `
		GROUP BY ` + normalizedUom + `
		ORDER BY ordered_value DESC, uom ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query uom breakdown: %w", err)
	}
	defer rows.Close()

	items := make([]domain.UomBreakdownRow, 0)
	for rows.Next() {
		var row domain.UomBreakdownRow
		if err := rows.Scan(&row.Uom, &row.LineCount, &row.QtyOrdered, &row.QtyReceived, &row.OrderedValue); err != nil {
			return nil, fmt.Errorf("scan uom row: %w", err)
		}
		row.PctReceived = pct(row.QtyReceived, row.QtyOrdered)
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uom rows: %w", err)
	}
	return items, nil
}
