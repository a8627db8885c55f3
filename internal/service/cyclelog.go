package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

// CycleFilter narrows the render-cycle log. Zero values mean "no bound".
type CycleFilter struct {
	From   time.Time
	To     time.Time
	Status string
}

type CycleLogService struct {
	cycleRepo repository.CycleRepo
}

func NewCycleLogService(cycleRepo repository.CycleRepo) *CycleLogService {
	return &CycleLogService{cycleRepo: cycleRepo}
}

// ErrInvalidFilter wraps every filter rejection so callers can map it to a
// client error.
var ErrInvalidFilter = errors.New("invalid cycle filter")

var (
	errInvalidTimeRange = fmt.Errorf("%w: 'from' must be <= 'to'", ErrInvalidFilter)
	errUnknownStatus    = fmt.Errorf("%w: status must be RENDERED, FAILED or SUPERSEDED", ErrInvalidFilter)
)

var knownStatuses = map[models.CycleStatus]struct{}{
	models.CycleRendered:   {},
	models.CycleFailed:     {},
	models.CycleSuperseded: {},
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeStatus(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the
// time range and status. An empty status matches every cycle.
func normalizeAndValidateFilter(f CycleFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	status := normalizeStatus(f.Status)
	if status != "" {
		if _, ok := knownStatuses[models.CycleStatus(status)]; !ok {
			return time.Time{}, time.Time{}, "", errUnknownStatus
		}
	}
	return from, to, status, nil
}

func (s *CycleLogService) List(ctx context.Context, f CycleFilter) ([]models.RenderCycle, error) {
	from, to, status, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.cycleRepo.List(ctx, from, to, status)
}
