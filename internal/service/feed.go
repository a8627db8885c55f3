package service

import (
	"context"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

const (
	defaultFeedLimit = 720 // one hour at a 5s tick
	maxFeedLimit     = 10_000
)

// FeedService serves stored simulator readings, oldest first.
type FeedService struct {
	readings     repository.ReadingRepo
	defaultLimit int
}

func NewFeedService(readings repository.ReadingRepo, defaultLimit int) *FeedService {
	if defaultLimit <= 0 {
		defaultLimit = defaultFeedLimit
	}
	return &FeedService{readings: readings, defaultLimit: min(defaultLimit, maxFeedLimit)}
}

// Records returns up to limit most recent readings. A non-positive limit
// uses the configured default; larger values are capped.
func (s *FeedService) Records(ctx context.Context, limit int) ([]models.TelemetryRecord, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return s.readings.Latest(ctx, limit)
}
