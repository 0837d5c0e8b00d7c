package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
)

func TestWriteLineRollup(t *testing.T) {
	rows := []domain.LineRollupRow{
		{
			Month:        "2025-03",
			SKU:          "STL-001",
			ProductName:  "Steel Rod 10mm",
			Category:     "Raw Materials",
			Uom:          "kg",
			QtyOrdered:   120,
			QtyReceived:  100,
			QtyInvoiced:  80,
			OrderedValue: 3600,
			AvgPrice:     30,
		},
		{
			Month:       "2025-02",
			SKU:         "CU-014",
			ProductName: "Copper Wire",
			Category:    "Raw Materials",
			Uom:         "m",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLineRollup(&buf, rows))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	got, err := file.GetRows(rollupSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, rollupHeaders, got[0])
	assert.Equal(t, "2025-03", got[1][0])
	assert.Equal(t, "STL-001", got[1][1])
	assert.Equal(t, "CU-014", got[2][1])
}

func TestWriteLineRollupEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLineRollup(&buf, nil))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	got, err := file.GetRows(rollupSheet)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rollupHeaders, got[0])
}
