package repository

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
)

// LineSortColumns is the allow-list for the rollup table's sortBy parameter,
// keyed by the API name and mapped to the query's output column.
var LineSortColumns = map[string]string{
	"month":         "month",
	"sku":           "sku",
	"product":       "product_name",
	"category":      "category",
	"uom":           "uom",
	"qty_ordered":   "qty_ordered",
	"qty_received":  "qty_received",
	"qty_invoiced":  "qty_invoiced",
	"ordered_value": "ordered_value",
	"avg_price":     "avg_price",
}

type LineSort struct {
	Column string
	Desc   bool
}

// OrderByClause renders the ORDER BY for the rollup query. Unknown columns
// fall back to month; ties are broken by SKU in the opposite direction of
// the primary sort so paging stays deterministic.
func (s LineSort) OrderByClause() string {
	column, ok := LineSortColumns[s.Column]
	if !ok {
		column = "month"
	}
	primary, tieBreak := "ASC", "DESC"
	if s.Desc {
		primary, tieBreak = "DESC", "ASC"
	}
	if column == "sku" {
		return fmt.Sprintf("ORDER BY sku %s", primary)
	}
	return fmt.Sprintf("ORDER BY %s %s, sku %s", column, primary, tieBreak)
}

// lineRollupSelect groups order lines to (month, product variant, unit of
// measure) grain. Descriptive columns are MAX() over the group, which is
// stable because variant and name/category travel together.
const lineRollupSelect = `
	SELECT
		to_char(date_trunc('month', o.date_order), 'YYYY-MM') AS month,
		MAX(` + purchasefilter.ResolvedSKU + `) AS sku,
		MAX(l.product_name) AS product_name,
		COALESCE(MAX(NULLIF(split_part(l.category_path, ' / ', 1), '')), 'Uncategorized') AS category,
		` + normalizedUom + ` AS uom,
		COALESCE(SUM(l.qty_ordered), 0)::double precision AS qty_ordered,
		COALESCE(SUM(l.qty_received), 0)::double precision AS qty_received,
		COALESCE(SUM(l.qty_invoiced), 0)::double precision AS qty_invoiced,
		COALESCE(SUM(l.price_subtotal), 0)::double precision AS ordered_value,
		COALESCE(AVG(l.price_unit), 0)::double precision AS avg_price
` + fromOrderLines

// lineRollupGroupBy is shared by the data query, the count query and the
// export query. Expressions are spelled out in full so all three partition
// rows identically; the month alias would be fine, but the uom alias would
// not (see normalizedUom).
const lineRollupGroupBy = `GROUP BY date_trunc('month', o.date_order), l.product_id, ` + normalizedUom

// ListLineRollup returns one page of the rollup table. The count query and
// the data query are independent reads over the same predicate and run
// concurrently; both group by exactly (month, product_id, uom), so total can
// never diverge from the row set.
func (r *Repository) ListLineRollup(
	ctx context.Context,
	filter purchasefilter.Filter,
	sort LineSort,
	page, pageSize int,
) (domain.LineRollupPage, error) {
	pred, args := filter.Predicate()

	dataQuery := fmt.Sprintf(
		"%s WHERE %s %s %s LIMIT $%d OFFSET $%d",
		lineRollupSelect, pred, lineRollupGroupBy, sort.OrderByClause(),
		len(args)+1, len(args)+2,
	)
	dataArgs := append(append([]any(nil), args...), pageSize, (page-1)*pageSize)

	countQuery := `
		SELECT COUNT(*)::int FROM (
			SELECT 1
	` + fromOrderLines + `
			WHERE ` + pred + `
			` + lineRollupGroupBy + `
		) AS grouped
	`

	result := domain.LineRollupPage{
		Items:    make([]domain.LineRollupRow, 0, pageSize),
		Page:     page,
		PageSize: pageSize,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := r.pool.QueryRow(groupCtx, countQuery, args...).Scan(&result.Total); err != nil {
			return fmt.Errorf("count line rollup: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		rows, err := r.pool.Query(groupCtx, dataQuery, dataArgs...)
		if err != nil {
			return fmt.Errorf("query line rollup: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var row domain.LineRollupRow
			if err := rows.Scan(
				&row.Month,
				&row.SKU,
				&row.ProductName,
				&row.Category,
				&row.Uom,
				&row.QtyOrdered,
				&row.QtyReceived,
				&row.QtyInvoiced,
				&row.OrderedValue,
				&row.AvgPrice,
			); err != nil {
				return fmt.Errorf("scan line rollup row: %w", err)
			}
			result.Items = append(result.Items, row)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate line rollup rows: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return domain.LineRollupPage{}, err
	}
	return result, nil
}

// ListLineRollupAll returns the complete rollup result set for exports.
func (r *Repository) ListLineRollupAll(
	ctx context.Context,
	filter purchasefilter.Filter,
	sort LineSort,
) ([]domain.LineRollupRow, error) {
	pred, args := filter.Predicate()
	query := fmt.Sprintf(
		"%s WHERE %s %s %s",
		lineRollupSelect, pred, lineRollupGroupBy, sort.OrderByClause(),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query line rollup export: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineRollupRow, 0)
	for rows.Next() {
		var row domain.LineRollupRow
		if err := rows.Scan(
			&row.Month,
			&row.SKU,
			&row.ProductName,
			&row.Category,
			&row.Uom,
			&row.QtyOrdered,
			&row.QtyReceived,
			&row.QtyInvoiced,
			&row.OrderedValue,
			&row.AvgPrice,
		); err != nil {
			return nil, fmt.Errorf("scan line rollup export row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line rollup export rows: %w", err)
	}
	return items, nil
}
