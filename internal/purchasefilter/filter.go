// Package purchasefilter compiles the dashboard's shared filter specification
// into a SQL predicate over purchase order lines. Every aggregation query
// reuses the same predicate and parameter list, so the compilation happens
// exactly once per request at the HTTP boundary.
package purchasefilter

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CategorySeparator splits a hierarchical category path into L1/L2/L3.
const CategorySeparator = " / "

// ResolvedSKU is the SQL expression for a line's effective SKU: the variant
// code when present, otherwise the template code.
const ResolvedSKU = "COALESCE(NULLIF(l.variant_sku, ''), l.tmpl_sku)"

// DefaultEpoch is the implicit lower date bound; orders before it are outside
// every dashboard view.
var DefaultEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// farFuture keeps the upper-bound predicate in place when dateTo is absent,
// so placeholder order stays identical across all filter combinations.
var farFuture = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Filter is the typed filter specification shared by all dashboard queries.
// DateFrom is inclusive, DateUntil exclusive; both are always set.
type Filter struct {
	DateFrom  time.Time
	DateUntil time.Time
	CatL1     string
	CatL2     string
	CatL3     string
	Search    string
	SKUs      []string
	TmplIDs   []int64
}

// Parse builds a Filter from request query parameters. Malformed values are
// dropped or defaulted, never rejected: an unparseable month falls back to
// the default bound and invalid ID tokens are skipped.
func Parse(q url.Values) Filter {
	f := Filter{
		DateFrom:  DefaultEpoch,
		DateUntil: farFuture,
		CatL1:     strings.TrimSpace(q.Get("catL1")),
		CatL2:     strings.TrimSpace(q.Get("catL2")),
		CatL3:     strings.TrimSpace(q.Get("catL3")),
		Search:    strings.TrimSpace(q.Get("search")),
	}

	if from, ok := parseMonth(q.Get("dateFrom")); ok {
		f.DateFrom = from
	}
	if to, ok := parseMonth(q.Get("dateTo")); ok {
		// dateTo names an inclusive month; the bound excludes the first
		// day of the month that follows it.
		f.DateUntil = to.AddDate(0, 1, 0)
	}

	for _, token := range strings.Split(q.Get("skus"), ",") {
		if sku := strings.TrimSpace(token); sku != "" {
			f.SKUs = append(f.SKUs, sku)
		}
	}
	for _, token := range strings.Split(q.Get("productTmplIds"), ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		f.TmplIDs = append(f.TmplIDs, id)
	}

	return f
}

func parseMonth(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

// DrillLevel is the category depth the by-category breakdown groups at,
// derived from how deep the current filter already reaches.
func (f Filter) DrillLevel() int {
	if f.CatL2 != "" {
		return 3
	}
	if f.CatL1 != "" {
		return 2
	}
	return 1
}

// Conditions returns a Builder pre-loaded with the compiled filter predicate,
// aliased for purchase_order_lines l joined to purchase_orders o. Queries may
// append their own conditions before rendering.
func (f Filter) Conditions() *Builder {
	b := &Builder{}

	b.Add("o.state IN ('purchase', 'done')")
	b.Add("o.date_order >= ?", f.DateFrom)
	b.Add("o.date_order < ?", f.DateUntil)

	// NULLIF keeps shorter category paths from matching an empty segment.
	if f.CatL1 != "" {
		b.Add("NULLIF(split_part(l.category_path, ' / ', 1), '') = ?", f.CatL1)
	}
	if f.CatL2 != "" {
		b.Add("NULLIF(split_part(l.category_path, ' / ', 2), '') = ?", f.CatL2)
	}
	if f.CatL3 != "" {
		b.Add("NULLIF(split_part(l.category_path, ' / ', 3), '') = ?", f.CatL3)
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		b.Add("("+ResolvedSKU+" ILIKE ? OR l.product_name ILIKE ?)", pattern, pattern)
	}

	if len(f.SKUs) > 0 {
		marks := make([]string, len(f.SKUs))
		args := make([]any, len(f.SKUs))
		for i, sku := range f.SKUs {
			marks[i] = "?"
			args[i] = sku
		}
		b.Add(ResolvedSKU+" IN ("+strings.Join(marks, ", ")+")", args...)
	}

	if len(f.TmplIDs) > 0 {
		marks := make([]string, len(f.TmplIDs))
		args := make([]any, len(f.TmplIDs))
		for i, id := range f.TmplIDs {
			marks[i] = "?"
			args[i] = id
		}
		b.Add("l.product_tmpl_id IN ("+strings.Join(marks, ", ")+")", args...)
	}

	return b
}

// Predicate renders the full filter condition with its ordered parameters.
func (f Filter) Predicate() (string, []any) {
	return f.Conditions().Render()
}
