package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
)

const suggestionLimit = 20

// GetFilterOptions returns the distinct months and the category tree present
// in confirmed orders, for populating the dashboard's filter controls.
func (r *Repository) GetFilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	options := domain.FilterOptions{
		Months:     make([]string, 0),
		Categories: make(map[string]map[string][]string),
	}

	monthRows, err := r.pool.Query(ctx, `
		SELECT DISTINCT to_char(date_trunc('month', o.date_order), 'YYYY-MM') AS month
		FROM purchase_orders o
		WHERE o.state IN ('purchase', 'done')
		ORDER BY month DESC
	`)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("query filter months: %w", err)
	}
	defer monthRows.Close()

	for monthRows.Next() {
		var month string
		if err := monthRows.Scan(&month); err != nil {
			return domain.FilterOptions{}, fmt.Errorf("scan filter month: %w", err)
		}
		options.Months = append(options.Months, month)
	}
	if err := monthRows.Err(); err != nil {
		return domain.FilterOptions{}, fmt.Errorf("iterate filter months: %w", err)
	}

	pathRows, err := r.pool.Query(ctx, `
		SELECT DISTINCT l.category_path
	`+fromOrderLines+`
		WHERE o.state IN ('purchase', 'done') AND l.category_path <> ''
	`)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("query category paths: %w", err)
	}
	defer pathRows.Close()

	paths := make([]string, 0)
	for pathRows.Next() {
		var path string
		if err := pathRows.Scan(&path); err != nil {
			return domain.FilterOptions{}, fmt.Errorf("scan category path: %w", err)
		}
		paths = append(paths, path)
	}
	if err := pathRows.Err(); err != nil {
		return domain.FilterOptions{}, fmt.Errorf("iterate category paths: %w", err)
	}

	options.Categories = BuildCategoryTree(paths)
	return options, nil
}

// BuildCategoryTree folds raw category paths into a three-level tree keyed
// level one -> level two -> sorted level-three names. Segments past the third
// level are ignored; duplicate leaves collapse.
func BuildCategoryTree(paths []string) map[string]map[string][]string {
	tree := make(map[string]map[string][]string)
	seen := make(map[string]map[string]map[string]bool)

	for _, path := range paths {
		segments := strings.Split(path, purchasefilter.CategorySeparator)
		l1 := strings.TrimSpace(segments[0])
		if l1 == "" {
			continue
		}
		if tree[l1] == nil {
			tree[l1] = make(map[string][]string)
			seen[l1] = make(map[string]map[string]bool)
		}
		if len(segments) < 2 {
			continue
		}
		l2 := strings.TrimSpace(segments[1])
		if l2 == "" {
			continue
		}
		if seen[l1][l2] == nil {
			tree[l1][l2] = make([]string, 0)
			seen[l1][l2] = make(map[string]bool)
		}
		if len(segments) < 3 {
			continue
		}
		l3 := strings.TrimSpace(segments[2])
		if l3 == "" || seen[l1][l2][l3] {
			continue
		}
		seen[l1][l2][l3] = true
		tree[l1][l2] = append(tree[l1][l2], l3)
	}

	for _, children := range tree {
		for _, leaves := range children {
			sort.Strings(leaves)
		}
	}
	return tree
}

// SuggestProducts returns products whose name or resolved SKU matches the
// query, one suggestion per product template.
func (r *Repository) SuggestProducts(
	ctx context.Context,
	filter purchasefilter.Filter,
	q string,
) ([]domain.ProductSuggestion, error) {
	builder := filter.Conditions()
	pattern := "%" + q + "%"
	builder.Add("(l.product_name ILIKE ? OR "+purchasefilter.ResolvedSKU+" ILIKE ?)", pattern, pattern)
	pred, args := builder.Render()

	query := fmt.Sprintf(`
		SELECT
			l.product_tmpl_id,
			MAX(l.product_name) AS product_name,
			MAX(%s) AS sku
	%s
		WHERE %s
		GROUP BY l.product_tmpl_id
		ORDER BY product_name ASC
		LIMIT %d
	`, purchasefilter.ResolvedSKU, fromOrderLines, pred, suggestionLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query product suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make([]domain.ProductSuggestion, 0, suggestionLimit)
	for rows.Next() {
		var s domain.ProductSuggestion
		if err := rows.Scan(&s.TmplID, &s.Name, &s.SKU); err != nil {
			return nil, fmt.Errorf("scan product suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product suggestions: %w", err)
	}
	return suggestions, nil
}

// SuggestSKUs returns distinct resolved SKUs matching the query, optionally
// scoped to a single product template.
func (r *Repository) SuggestSKUs(
	ctx context.Context,
	filter purchasefilter.Filter,
	q string,
	tmplID int64,
) ([]string, error) {
	builder := filter.Conditions()
	builder.Add(purchasefilter.ResolvedSKU+" ILIKE ?", "%"+q+"%")
	if tmplID > 0 {
		builder.Add("l.product_tmpl_id = ?", tmplID)
	}
	pred, args := builder.Render()

	query := fmt.Sprintf(`
		SELECT DISTINCT %s AS sku
	%s
		WHERE %s
		ORDER BY sku ASC
		LIMIT %d
	`, purchasefilter.ResolvedSKU, fromOrderLines, pred, suggestionLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sku suggestions: %w", err)
	}
	defer rows.Close()

	skus := make([]string, 0, suggestionLimit)
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan sku suggestion: %w", err)
		}
		skus = append(skus, sku)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sku suggestions: %w", err)
	}
	return skus, nil
}
