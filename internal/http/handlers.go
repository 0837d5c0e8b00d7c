package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ksomany/supply-chain-dashboard/internal/excel"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
	"github.com/ksomany/supply-chain-dashboard/internal/repository"
	"github.com/ksomany/supply-chain-dashboard/internal/service"
)

const (
	defaultPageSize = 50
	minPageSize     = 10
	maxPageSize     = 200
)

type Handler struct {
	svc *service.Service
	log *slog.Logger
}

func NewHandler(svc *service.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	summary, err := h.svc.KPIs(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "kpis", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) MonthlyByCategory(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	rows, err := h.svc.MonthlyByCategory(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "monthly", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	rows, err := h.svc.CategoryBreakdown(r.Context(), filter, filter.DrillLevel())
	if err != nil {
		h.serverError(w, r, "by-category", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) UomBreakdown(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	rows, err := h.svc.UomBreakdown(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "by-uom", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) PriceTrend(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	points, err := h.svc.PriceTrend(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "price-trend", err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) PriceByQuarter(w http.ResponseWriter, r *http.Request) {
	filter := purchasefilter.Parse(r.URL.Query())
	rows, err := h.svc.PriceByQuarter(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "price-by-quarter", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) LineRollup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := purchasefilter.Parse(query)
	page, pageSize := parsePagination(query)
	sort := parseLineSort(query)

	result, err := h.svc.LineRollup(r.Context(), filter, sort, page, pageSize)
	if err != nil {
		h.serverError(w, r, "lines", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) LineRollupExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := purchasefilter.Parse(query)
	sort := parseLineSort(query)

	rows, err := h.svc.LineRollupExport(r.Context(), filter, sort)
	if err != nil {
		h.serverError(w, r, "lines-export", err)
		return
	}

	filename := fmt.Sprintf("purchase-lines-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := excel.WriteLineRollup(w, rows); err != nil {
		h.log.Error("write rollup workbook", "error", err)
	}
}

func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.FilterOptions(r.Context())
	if err != nil {
		h.serverError(w, r, "filters", err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := purchasefilter.Parse(query)
	suggestions, err := h.svc.SuggestProducts(r.Context(), filter, strings.TrimSpace(query.Get("q")))
	if err != nil {
		h.serverError(w, r, "products", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) SuggestSKUs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := purchasefilter.Parse(query)

	skus, err := h.svc.SuggestSKUs(r.Context(), filter, strings.TrimSpace(query.Get("q")), parseTmplID(query.Get("tmplId")))
	if err != nil {
		h.serverError(w, r, "skus", err)
		return
	}
	writeJSON(w, http.StatusOK, skus)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	h.log.Error("dashboard query failed", "endpoint", endpoint, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// parsePagination clamps page to at least 1 and pageSize into the allowed
// window. Malformed values fall back to the defaults.
func parsePagination(query map[string][]string) (page, pageSize int) {
	page, pageSize = 1, defaultPageSize
	if raw := first(query, "page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 1 {
			page = parsed
		}
	}
	if raw := first(query, "pageSize"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		}
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseLineSort(query map[string][]string) repository.LineSort {
	sort := repository.LineSort{Column: "month", Desc: true}
	if raw := first(query, "sortBy"); raw != "" {
		if _, ok := repository.LineSortColumns[raw]; ok {
			sort.Column = raw
		}
	}
	switch strings.ToLower(first(query, "sortDir")) {
	case "asc":
		sort.Desc = false
	case "desc":
		sort.Desc = true
	}
	return sort
}

// parseTmplID returns 0 for an absent, unparseable or non-positive value,
// which leaves the SKU lookup unscoped. Bad input never rejects the request.
func parseTmplID(raw string) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

func first(query map[string][]string, key string) string {
	values := query[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
