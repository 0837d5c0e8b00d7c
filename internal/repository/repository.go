package repository

import (
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

// fromOrderLines is the join every aggregation query selects from; the
// compiled filter predicate references the same l/o aliases.
const fromOrderLines = `
	FROM purchase_order_lines l
	JOIN purchase_orders o ON o.id = l.order_id
`

// normalizedUom folds NULL and empty uom values into one bucket. Every query
// that groups or reports by unit of measure must group by this exact
// expression: a bare uom alias in GROUP BY resolves to the raw input column,
// which splits NULL and '' lines into separate groups.
const normalizedUom = `COALESCE(NULLIF(l.uom, ''), 'Unknown')`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// pct returns 100*num/den rounded to one decimal, or nil when the
// denominator is zero.
func pct(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	value := math.Round(num/den*1000) / 10
	return &value
}
