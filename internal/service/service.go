package service

import (
	"context"
	"time"

	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

// Fetcher loads the record set of one render cycle.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.TelemetryRecord, error)
}

// Publisher pushes the latest values somewhere outside the dashboard.
type Publisher interface {
	Publish(ctx context.Context, snap models.Snapshot) error
}

// Dashboard owns the view state and the chart currently on display.
type Dashboard interface {
	View() models.ViewState
	Current() (models.Render, bool)
	Toggle(ctx context.Context) CycleOutcome
	Refresh(ctx context.Context) CycleOutcome
	Subscribe() (<-chan models.Render, func())
}

// Charts builds a chart for an arbitrary view without touching dashboard state.
type Charts interface {
	Build(ctx context.Context, view models.ViewState) (models.ChartSpec, error)
}

// CycleLog exposes the render-cycle history.
type CycleLog interface {
	List(ctx context.Context, f CycleFilter) ([]models.RenderCycle, error)
}

// Feed serves simulated readings in the telemetry wire format.
type Feed interface {
	Records(ctx context.Context, limit int) ([]models.TelemetryRecord, error)
}

// Simulator produces readings until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Dashboard
	Charts
	CycleLog
	Feed
	Simulator
}

// Options carries the non-repository dependencies of NewService.
type Options struct {
	InitialView      models.ViewState
	CancelSuperseded bool
	Publisher        Publisher
	Log              *logger.Logger
	SimulatorSeed    int64
	Retention        time.Duration
	FeedLimit        int
}

func NewService(repos *repository.Repository, fetcher Fetcher, opts Options) *Service {
	return &Service{
		Dashboard: NewDashboardService(fetcher, repos.Cycles, DashboardOptions{
			InitialView:      opts.InitialView,
			CancelSuperseded: opts.CancelSuperseded,
			Publisher:        opts.Publisher,
			Log:              opts.Log,
		}),
		Charts:    NewChartService(fetcher),
		CycleLog:  NewCycleLogService(repos.Cycles),
		Feed:      NewFeedService(repos.Readings, opts.FeedLimit),
		Simulator: NewSimulatorService(repos.Readings, opts.SimulatorSeed, opts.Retention, opts.Log),
	}
}
