package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/kpis", handler.KPIs)
		r.Get("/monthly", handler.MonthlyByCategory)
		r.Get("/by-category", handler.CategoryBreakdown)
		r.Get("/by-uom", handler.UomBreakdown)
		r.Get("/price-trend", handler.PriceTrend)
		r.Get("/price-by-quarter", handler.PriceByQuarter)
		r.Get("/lines", handler.LineRollup)
		r.Get("/lines/export.xlsx", handler.LineRollupExport)
		r.Get("/filters", handler.FilterOptions)
		r.Get("/products", handler.SuggestProducts)
		r.Get("/skus", handler.SuggestSKUs)
	})

	return r
}
