package service

import (
	"context"

	"thermostat_dashboard/internal/models"
)

// ChartService is the stateless fetch + build path.
type ChartService struct {
	fetcher Fetcher
}

func NewChartService(fetcher Fetcher) *ChartService {
	return &ChartService{fetcher: fetcher}
}

// Build fetches fresh telemetry and builds the chart for view. Unlike a
// dashboard cycle, errors are returned to the caller.
func (s *ChartService) Build(ctx context.Context, view models.ViewState) (models.ChartSpec, error) {
	records, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return models.ChartSpec{}, err
	}
	return BuildChart(records, view), nil
}
