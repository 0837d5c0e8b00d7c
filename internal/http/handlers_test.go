package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksomany/supply-chain-dashboard/internal/repository"
	"github.com/ksomany/supply-chain-dashboard/internal/service"
)

func TestParsePaginationDefaults(t *testing.T) {
	page, pageSize := parsePagination(url.Values{})
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, pageSize)
}

func TestParsePaginationClampsBounds(t *testing.T) {
	page, pageSize := parsePagination(url.Values{"page": {"0"}, "pageSize": {"3"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, pageSize)

	page, pageSize = parsePagination(url.Values{"page": {"-7"}, "pageSize": {"9001"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, 200, pageSize)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	page, pageSize := parsePagination(url.Values{"page": {"two"}, "pageSize": {"lots"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, pageSize)
}

func TestParseLineSortDefaultsToMonthDesc(t *testing.T) {
	sort := parseLineSort(url.Values{})
	assert.Equal(t, repository.LineSort{Column: "month", Desc: true}, sort)
}

func TestParseLineSortDirectionDefaultsToDescending(t *testing.T) {
	sort := parseLineSort(url.Values{"sortBy": {"ordered_value"}})
	assert.Equal(t, repository.LineSort{Column: "ordered_value", Desc: true}, sort)

	sort = parseLineSort(url.Values{"sortBy": {"sku"}, "sortDir": {"asc"}})
	assert.Equal(t, repository.LineSort{Column: "sku", Desc: false}, sort)
}

func TestParseLineSortHonorsDirection(t *testing.T) {
	sort := parseLineSort(url.Values{"sortBy": {"sku"}, "sortDir": {"DESC"}})
	assert.Equal(t, repository.LineSort{Column: "sku", Desc: true}, sort)
}

func TestParseTmplID(t *testing.T) {
	assert.Equal(t, int64(42), parseTmplID("42"))
	assert.Equal(t, int64(42), parseTmplID(" 42 "))
	assert.Equal(t, int64(0), parseTmplID(""))
	assert.Equal(t, int64(0), parseTmplID("abc"))
	assert.Equal(t, int64(0), parseTmplID("-3"))
	assert.Equal(t, int64(0), parseTmplID("0"))
}

func TestSuggestSKUsMalformedTmplIDIsNotRejected(t *testing.T) {
	handler := NewHandler(service.New(nil), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/skus?q=&tmplId=abc", nil)
	rec := httptest.NewRecorder()
	handler.SuggestSKUs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestParseLineSortRejectsUnknownColumn(t *testing.T) {
	sort := parseLineSort(url.Values{"sortBy": {"secret_column"}})
	assert.Equal(t, repository.LineSort{Column: "month", Desc: true}, sort)
}
