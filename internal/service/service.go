package service

import (
	"context"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
	"github.com/ksomany/supply-chain-dashboard/internal/repository"
)

// Service exposes the dashboard read operations to the HTTP layer.
type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) KPIs(ctx context.Context, filter purchasefilter.Filter) (domain.KPISummary, error) {
	return s.repo.GetKPIs(ctx, filter)
}

func (s *Service) MonthlyByCategory(ctx context.Context, filter purchasefilter.Filter) ([]domain.MonthlyCategoryRow, error) {
	return s.repo.GetMonthlyByCategory(ctx, filter)
}

func (s *Service) CategoryBreakdown(ctx context.Context, filter purchasefilter.Filter, level int) ([]domain.CategoryBreakdownRow, error) {
	return s.repo.GetCategoryBreakdown(ctx, filter, level)
}

func (s *Service) UomBreakdown(ctx context.Context, filter purchasefilter.Filter) ([]domain.UomBreakdownRow, error) {
	return s.repo.GetUomBreakdown(ctx, filter)
}

func (s *Service) PriceTrend(ctx context.Context, filter purchasefilter.Filter) ([]domain.PriceTrendPoint, error) {
	return s.repo.GetPriceTrend(ctx, filter)
}

func (s *Service) PriceByQuarter(ctx context.Context, filter purchasefilter.Filter) ([]domain.QuarterPriceRow, error) {
	return s.repo.GetPriceByQuarter(ctx, filter)
}

func (s *Service) LineRollup(
	ctx context.Context,
	filter purchasefilter.Filter,
	sort repository.LineSort,
	page, pageSize int,
) (domain.LineRollupPage, error) {
	return s.repo.ListLineRollup(ctx, filter, sort, page, pageSize)
}

func (s *Service) LineRollupExport(
	ctx context.Context,
	filter purchasefilter.Filter,
	sort repository.LineSort,
) ([]domain.LineRollupRow, error) {
	return s.repo.ListLineRollupAll(ctx, filter, sort)
}

func (s *Service) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	return s.repo.GetFilterOptions(ctx)
}

// SuggestProducts skips the database entirely for an empty query, since the
// typeahead has nothing useful to narrow on.
func (s *Service) SuggestProducts(ctx context.Context, filter purchasefilter.Filter, q string) ([]domain.ProductSuggestion, error) {
	if q == "" {
		return []domain.ProductSuggestion{}, nil
	}
	return s.repo.SuggestProducts(ctx, filter, q)
}

func (s *Service) SuggestSKUs(ctx context.Context, filter purchasefilter.Filter, q string, tmplID int64) ([]string, error) {
	if q == "" {
		return []string{}, nil
	}
	return s.repo.SuggestSKUs(ctx, filter, q, tmplID)
}
