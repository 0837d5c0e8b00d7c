package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPct(t *testing.T) {
	got := pct(1, 3)
	require.NotNil(t, got)
	assert.Equal(t, 33.3, *got)

	got = pct(2, 3)
	require.NotNil(t, got)
	assert.Equal(t, 66.7, *got)

	got = pct(5, 5)
	require.NotNil(t, got)
	assert.Equal(t, 100.0, *got)

	assert.Nil(t, pct(10, 0))
}

// NULL and '' uom lines must land in a single "Unknown" group, and the
// rollup's count and data queries must partition rows identically.
func TestRollupGroupingUsesNormalizedUom(t *testing.T) {
	assert.Equal(t, `COALESCE(NULLIF(l.uom, ''), 'Unknown')`, normalizedUom)
	assert.Equal(t,
		`GROUP BY date_trunc('month', o.date_order), l.product_id, `+normalizedUom,
		lineRollupGroupBy,
	)
	assert.Contains(t, lineRollupSelect, normalizedUom+` AS uom`)
}

func TestOrderByClauseTieBreaksOpposite(t *testing.T) {
	clause := LineSort{Column: "ordered_value", Desc: true}.OrderByClause()
	assert.Equal(t, "ORDER BY ordered_value DESC, sku ASC", clause)

	clause = LineSort{Column: "qty_ordered", Desc: false}.OrderByClause()
	assert.Equal(t, "ORDER BY qty_ordered ASC, sku DESC", clause)
}

func TestOrderByClauseSKUHasNoTieBreak(t *testing.T) {
	assert.Equal(t, "ORDER BY sku ASC", LineSort{Column: "sku"}.OrderByClause())
	assert.Equal(t, "ORDER BY sku DESC", LineSort{Column: "sku", Desc: true}.OrderByClause())
}

func TestOrderByClauseRejectsUnknownColumn(t *testing.T) {
	clause := LineSort{Column: "price_unit; DROP TABLE purchase_orders", Desc: true}.OrderByClause()
	assert.Equal(t, "ORDER BY month DESC, sku ASC", clause)
}

func TestOrderByClauseMapsAPIToColumnNames(t *testing.T) {
	assert.Equal(t, "ORDER BY product_name ASC, sku DESC", LineSort{Column: "product"}.OrderByClause())
	assert.Equal(t, "ORDER BY category ASC, sku DESC", LineSort{Column: "category"}.OrderByClause())
}

func TestBuildCategoryTree(t *testing.T) {
	tree := BuildCategoryTree([]string{
		"Raw Materials / Metals / Steel",
		"Raw Materials / Metals / Copper",
		"Raw Materials / Metals / Steel",
		"Raw Materials / Plastics",
		"Consumables",
		"Raw Materials / Metals / Aluminium / Sheets",
	})

	require.Contains(t, tree, "Raw Materials")
	require.Contains(t, tree, "Consumables")

	metals := tree["Raw Materials"]["Metals"]
	assert.Equal(t, []string{"Aluminium", "Copper", "Steel"}, metals)

	assert.Empty(t, tree["Raw Materials"]["Plastics"])
	assert.Empty(t, tree["Consumables"])
}

func TestBuildCategoryTreeSkipsBlankSegments(t *testing.T) {
	tree := BuildCategoryTree([]string{"", "  ", "Tools /  / Drill"})

	require.Contains(t, tree, "Tools")
	assert.Empty(t, tree["Tools"])
	assert.Len(t, tree, 1)
}
