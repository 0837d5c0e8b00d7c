package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ksomany/supply-chain-dashboard/internal/config"
	"github.com/ksomany/supply-chain-dashboard/internal/db"
)

type product struct {
	tmplID   int64
	tmplSKU  string
	name     string
	category string
	uom      string
	variants []string
	basePrice float64
}

var catalog = []product{
	{1, "STL-ROD", "Steel Rod 10mm", "Raw Materials / Metals / Steel", "kg", []string{"STL-ROD-A", "STL-ROD-B"}, 28},
	{2, "CU-WIRE", "Copper Wire 2mm", "Raw Materials / Metals / Copper", "m", []string{"CU-WIRE-R50", "CU-WIRE-R100"}, 3.6},
	{3, "ALU-SHT", "Aluminium Sheet", "Raw Materials / Metals / Aluminium", "unit", nil, 95},
	{4, "PVC-GRN", "PVC Granulate", "Raw Materials / Plastics", "kg", nil, 1.8},
	{5, "GLV-NTR", "Nitrile Gloves", "Consumables / Safety", "box", []string{"GLV-NTR-M", "GLV-NTR-L"}, 12},
	{6, "TAPE-INS", "Insulation Tape", "Consumables / Electrical", "unit", nil, 2.4},
	{7, "DRL-BIT", "Drill Bit Set", "Tools / Drilling", "unit", nil, 45},
	{8, "OIL-HYD", "Hydraulic Oil", "Consumables / Lubricants", "unit", []string{"OIL-HYD-5L", "OIL-HYD-20L"}, 60},
}

var orderStates = []string{"purchase", "purchase", "purchase", "done", "done", "draft", "cancel"}

func main() {
	months := flag.Int("months", 18, "how many months of history to generate")
	ordersPerMonth := flag.Int("orders", 12, "orders generated per month")
	seed := flag.Int64("seed", 42, "random seed, fixed for reproducible data")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database error", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		logger.Error("migration error", "error", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	start := time.Now().UTC().AddDate(0, -*months, 0)

	tx, err := pool.Begin(ctx)
	if err != nil {
		logger.Error("begin tx", "error", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	orderCount, lineCount := 0, 0
	for m := 0; m < *months; m++ {
		monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
		for o := 0; o < *ordersPerMonth; o++ {
			orderCount++
			day := rng.Intn(28)
			state := orderStates[rng.Intn(len(orderStates))]
			dateOrder := monthStart.AddDate(0, 0, day).Add(time.Duration(rng.Intn(24*60)) * time.Minute)

			var orderID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO purchase_orders (name, state, date_order)
				VALUES ($1, $2, $3)
				RETURNING id
			`, fmt.Sprintf("PO%05d", orderCount), state, dateOrder).Scan(&orderID)
			if err != nil {
				logger.Error("insert order", "error", err)
				os.Exit(1)
			}

			lines := 1 + rng.Intn(5)
			batch := &pgx.Batch{}
			for l := 0; l < lines; l++ {
				p := catalog[rng.Intn(len(catalog))]
				variantSKU := ""
				productID := p.tmplID * 100
				if len(p.variants) > 0 {
					v := rng.Intn(len(p.variants))
					variantSKU = p.variants[v]
					productID += int64(v)
				}

				qty := float64(1+rng.Intn(200)) + rng.Float64()
				// slow upward drift plus noise, so the trend charts have shape
				price := p.basePrice * (1 + 0.01*float64(m)) * (0.9 + 0.2*rng.Float64())
				received := qty * rng.Float64()
				invoiced := received * rng.Float64()

				batch.Queue(`
					INSERT INTO purchase_order_lines (
						order_id, product_id, product_tmpl_id, variant_sku, tmpl_sku,
						product_name, category_path, uom,
						qty_ordered, qty_received, qty_invoiced, price_unit, price_subtotal
					) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				`, orderID, productID, p.tmplID, variantSKU, p.tmplSKU,
					p.name, p.category, p.uom,
					qty, received, invoiced, price, qty*price)
				lineCount++
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				logger.Error("insert lines", "error", err)
				os.Exit(1)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("commit", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded purchase history", "orders", orderCount, "lines", lineCount)
}
