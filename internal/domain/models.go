package domain

// KPISummary is the single-row headline aggregate for the current filter.
// Percentages are nil when their denominator is zero.
type KPISummary struct {
	LineCount      int      `json:"line_count"`
	OrderedValue   float64  `json:"total_ordered_value"`
	ReceivedValue  float64  `json:"total_received_value"`
	InvoicedValue  float64  `json:"total_invoiced_value"`
	PctReceived    *float64 `json:"pct_received"`
	PctInvoiced    *float64 `json:"pct_invoiced"`
	DistinctMonths int      `json:"distinct_months"`
}

type MonthlyCategoryRow struct {
	Month        string  `json:"month"`
	Category     string  `json:"category"`
	OrderedValue float64 `json:"ordered_value"`
	LineCount    int     `json:"line_count"`
}

type CategoryBreakdownRow struct {
	Category     string  `json:"category"`
	Level        int     `json:"level"`
	OrderedValue float64 `json:"ordered_value"`
	LineCount    int     `json:"line_count"`
}

type UomBreakdownRow struct {
	Uom          string   `json:"uom"`
	LineCount    int      `json:"line_count"`
	QtyOrdered   float64  `json:"qty_ordered"`
	QtyReceived  float64  `json:"qty_received"`
	OrderedValue float64  `json:"ordered_value"`
	PctReceived  *float64 `json:"pct_received"`
}

// PriceTrendPoint carries the quantity-weighted average unit price for one
// order day plus trailing moving averages over the daily series.
type PriceTrendPoint struct {
	Day      string  `json:"day"`
	AvgPrice float64 `json:"avg_price"`
	MA30     float64 `json:"ma30"`
	MA90     float64 `json:"ma90"`
}

type QuarterPriceRow struct {
	Year     int     `json:"year"`
	Quarter  int     `json:"quarter"`
	AvgPrice float64 `json:"avg_price"`
}

// LineRollupRow is one row of the paginated table: order lines collapsed to
// (month, product variant, unit of measure) grain.
type LineRollupRow struct {
	Month        string  `json:"month"`
	SKU          string  `json:"sku"`
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	Uom          string  `json:"uom"`
	QtyOrdered   float64 `json:"qty_ordered"`
	QtyReceived  float64 `json:"qty_received"`
	QtyInvoiced  float64 `json:"qty_invoiced"`
	OrderedValue float64 `json:"ordered_value"`
	AvgPrice     float64 `json:"avg_price"`
}

type LineRollupPage struct {
	Items    []LineRollupRow `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// FilterOptions feeds the dashboard selectors: months present in confirmed
// orders plus the full category hierarchy as L1 -> L2 -> [L3].
type FilterOptions struct {
	Months     []string                       `json:"months"`
	Categories map[string]map[string][]string `json:"categories"`
}

type ProductSuggestion struct {
	TmplID int64  `json:"tmpl_id"`
	Name   string `json:"name"`
	SKU    string `json:"sku"`
}
