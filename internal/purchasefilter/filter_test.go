package purchasefilter

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	f := Parse(url.Values{})

	assert.Equal(t, DefaultEpoch, f.DateFrom)
	assert.Equal(t, 9999, f.DateUntil.Year())
	assert.Empty(t, f.CatL1)
	assert.Empty(t, f.SKUs)
	assert.Empty(t, f.TmplIDs)
}

func TestParseDateBounds(t *testing.T) {
	f := Parse(url.Values{
		"dateFrom": {"2025-01"},
		"dateTo":   {"2025-03"},
	})

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), f.DateFrom)
	// dateTo is inclusive for March, so the exclusive bound is April 1st.
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), f.DateUntil)
}

func TestParseMalformedMonthFallsBack(t *testing.T) {
	f := Parse(url.Values{"dateFrom": {"not-a-month"}})
	assert.Equal(t, DefaultEpoch, f.DateFrom)
}

func TestParseSKUListDropsEmptyTokens(t *testing.T) {
	f := Parse(url.Values{"skus": {"SKU-A,, SKU-B ,"}})
	assert.Equal(t, []string{"SKU-A", "SKU-B"}, f.SKUs)
}

func TestParseTmplIDsDropsInvalidTokens(t *testing.T) {
	f := Parse(url.Values{"productTmplIds": {"3,abc,-1,0,42"}})
	assert.Equal(t, []int64{3, 42}, f.TmplIDs)
}

func TestDrillLevel(t *testing.T) {
	assert.Equal(t, 1, Filter{}.DrillLevel())
	assert.Equal(t, 2, Filter{CatL1: "Raw Materials"}.DrillLevel())
	assert.Equal(t, 3, Filter{CatL1: "Raw Materials", CatL2: "Metals"}.DrillLevel())
}

func TestPredicateDefaultsAlwaysApply(t *testing.T) {
	pred, args := Parse(url.Values{}).Predicate()

	assert.Contains(t, pred, "o.state IN ('purchase', 'done')")
	assert.Contains(t, pred, "o.date_order >= $1")
	assert.Contains(t, pred, "o.date_order < $2")
	require.Len(t, args, 2)
	assert.Equal(t, DefaultEpoch, args[0])
}

func TestPredicatePlaceholdersMatchArgs(t *testing.T) {
	cases := []url.Values{
		{},
		{"dateFrom": {"2024-05"}, "dateTo": {"2024-08"}},
		{"catL1": {"Office"}, "catL2": {"Paper"}, "catL3": {"A4"}},
		{"search": {"bolt"}},
		{"skus": {"A,B,C"}},
		{"productTmplIds": {"1,2,3"}},
		{
			"dateFrom":       {"2024-01"},
			"catL1":          {"Office"},
			"search":         {"bolt"},
			"skus":           {"A,B"},
			"productTmplIds": {"7"},
		},
	}

	for _, q := range cases {
		pred, args := Parse(q).Predicate()

		count := strings.Count(pred, "$")
		require.Equal(t, len(args), count, "query %v", q)
		// Placeholders must be sequential and each index referenced once.
		for i := 1; i <= len(args); i++ {
			marker := "$" + strconv.Itoa(i)
			require.Equal(t, 1, countPlaceholder(pred, marker), "missing %s in %q", marker, pred)
		}
	}
}

func TestPredicateCategorySegmentsUseNullSemantics(t *testing.T) {
	pred, args := (Filter{
		DateFrom:  DefaultEpoch,
		DateUntil: time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
		CatL2:     "Metals",
	}).Predicate()

	// Paths with fewer than two segments must compare as NULL, not ''.
	assert.Contains(t, pred, "NULLIF(split_part(l.category_path, ' / ', 2), '') = $3")
	require.Len(t, args, 3)
	assert.Equal(t, "Metals", args[2])
}

func TestPredicateSearchBindsPatternTwice(t *testing.T) {
	pred, args := (Filter{
		DateFrom:  DefaultEpoch,
		DateUntil: farFuture,
		Search:    "Steel",
	}).Predicate()

	require.Len(t, args, 4)
	assert.Equal(t, "%Steel%", args[2])
	assert.Equal(t, "%Steel%", args[3])
	assert.Contains(t, pred, "ILIKE $3")
	assert.Contains(t, pred, "l.product_name ILIKE $4")
}

func TestConditionsExtended(t *testing.T) {
	b := Filter{DateFrom: DefaultEpoch, DateUntil: farFuture}.Conditions()
	b.Add("l.product_name ILIKE ?", "%wire%")
	pred, args := b.Render()

	require.Len(t, args, 3)
	assert.True(t, strings.HasSuffix(pred, "l.product_name ILIKE $3"))
}

func TestBuilderRenderCopiesArgs(t *testing.T) {
	b := &Builder{}
	b.Add("a = ?", 1)
	_, first := b.Render()
	b.Add("b = ?", 2)
	_, second := b.Render()

	require.Len(t, first, 1)
	require.Len(t, second, 2)
}

func countPlaceholder(pred, marker string) int {
	count := 0
	for i := 0; i+len(marker) <= len(pred); i++ {
		if pred[i:i+len(marker)] != marker {
			continue
		}
		// Reject prefixes of longer indices, e.g. $1 inside $12.
		if end := i + len(marker); end < len(pred) && pred[end] >= '0' && pred[end] <= '9' {
			continue
		}
		count++
	}
	return count
}
