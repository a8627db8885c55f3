package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
	"thermostat_dashboard/internal/telemetry"

	"github.com/google/uuid"
)

// CycleOutcome is what one Toggle/Refresh produced. Render is nil unless
// the cycle reached the display.
type CycleOutcome struct {
	View   models.ViewState   `json:"view"`
	Cycle  models.RenderCycle `json:"cycle"`
	Render *models.Render     `json:"render,omitempty"`
}

type DashboardOptions struct {
	InitialView models.ViewState
	// CancelSuperseded cancels the in-flight fetch when a newer cycle starts
	// and drops results of superseded cycles. When false, whichever cycle
	// finishes last owns the display.
	CancelSuperseded bool
	Publisher        Publisher
	Log              *logger.Logger
}

// DashboardService runs render cycles: fetch, build, swap the displayed chart.
// Failed cycles are logged and leave the displayed chart untouched.
type DashboardService struct {
	fetcher          Fetcher
	cycles           repository.CycleRepo
	publisher        Publisher
	log              *logger.Logger
	cancelSuperseded bool
	now              func() time.Time

	mu         sync.Mutex
	view       models.ViewState
	current    *models.Render
	generation uint64
	cancelPrev context.CancelFunc
	subs       map[int]chan models.Render
	nextSub    int
}

func NewDashboardService(fetcher Fetcher, cycles repository.CycleRepo, opts DashboardOptions) *DashboardService {
	view := opts.InitialView
	if view.Unit == "" {
		view.Unit = models.Celsius
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{
		fetcher:          fetcher,
		cycles:           cycles,
		publisher:        opts.Publisher,
		log:              log,
		cancelSuperseded: opts.CancelSuperseded,
		now:              time.Now,
		view:             view,
		subs:             make(map[int]chan models.Render),
	}
}

// View returns the current view state.
func (s *DashboardService) View() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Current returns the chart on display, if any cycle has rendered yet.
func (s *DashboardService) Current() (models.Render, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Render{}, false
	}
	return *s.current, true
}

// Toggle flips the unit and runs a full cycle for the new view.
func (s *DashboardService) Toggle(ctx context.Context) CycleOutcome {
	s.mu.Lock()
	s.view = s.view.Toggled()
	view := s.view
	s.mu.Unlock()

	s.log.Infow("view_toggled", "unit", view.Unit)
	return s.runCycle(ctx, view)
}

// Refresh runs a cycle for the current view.
func (s *DashboardService) Refresh(ctx context.Context) CycleOutcome {
	return s.runCycle(ctx, s.View())
}

// Subscribe registers for every new render. The channel keeps only the
// newest render when the reader falls behind. Call the returned func to
// unsubscribe; it closes the channel.
func (s *DashboardService) Subscribe() (<-chan models.Render, func()) {
	ch := make(chan models.Render, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *DashboardService) runCycle(parent context.Context, view models.ViewState) CycleOutcome {
	cycle := models.RenderCycle{
		CycleID:   uuid.NewString(),
		StartedAt: s.now().UTC(),
		Unit:      view.Unit,
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	gen := s.begin(cancel)
	defer s.end(gen)

	records, err := s.fetcher.Fetch(ctx)
	if s.superseded(gen) {
		return s.finishSuperseded(parent, view, cycle)
	}
	if err != nil {
		return s.finishFailed(parent, view, cycle, err)
	}

	chart := BuildChart(records, view)
	render := models.Render{
		CycleID:    cycle.CycleID,
		View:       view,
		Chart:      chart,
		RenderedAt: s.now().UTC(),
	}

	s.mu.Lock()
	if s.cancelSuperseded && gen != s.generation {
		s.mu.Unlock()
		return s.finishSuperseded(parent, view, cycle)
	}
	s.current = &render
	s.notifyLocked(render)
	s.mu.Unlock()

	cycle.Status = models.CycleRendered
	cycle.Points = pointCounts(chart)
	s.record(parent, &cycle)
	s.log.Infow("render_cycle_rendered", "cycle_id", cycle.CycleID, "unit", view.Unit, "points", cycle.Points)

	s.publish(parent, render)
	return CycleOutcome{View: view, Cycle: cycle, Render: &render}
}

// begin registers a new cycle generation, canceling the previous in-flight
// cycle when the policy asks for it.
func (s *DashboardService) begin(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancelSuperseded && s.cancelPrev != nil {
		s.cancelPrev()
	}
	s.cancelPrev = cancel
	return s.generation
}

func (s *DashboardService) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.cancelPrev = nil
	}
}

func (s *DashboardService) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelSuperseded && gen != s.generation
}

func (s *DashboardService) finishSuperseded(ctx context.Context, view models.ViewState, cycle models.RenderCycle) CycleOutcome {
	cycle.Status = models.CycleSuperseded
	s.record(ctx, &cycle)
	s.log.Infow("render_cycle_superseded", "cycle_id", cycle.CycleID, "unit", view.Unit)
	return CycleOutcome{View: view, Cycle: cycle}
}

func (s *DashboardService) finishFailed(ctx context.Context, view models.ViewState, cycle models.RenderCycle, err error) CycleOutcome {
	cycle.Status = models.CycleFailed
	cycle.Error = err.Error()
	s.record(ctx, &cycle)

	fields := []interface{}{"err", err, "cycle_id", cycle.CycleID, "unit", view.Unit}
	var fe *telemetry.FetchError
	var pe *telemetry.ParseError
	switch {
	case errors.As(err, &fe):
		fields = append(fields, "kind", "fetch", "status_code", fe.StatusCode)
	case errors.As(err, &pe):
		fields = append(fields, "kind", "parse")
	}
	s.log.Errorw("render_cycle_failed", fields...)
	return CycleOutcome{View: view, Cycle: cycle}
}

// record appends the cycle to the log; a canceled request still gets logged.
func (s *DashboardService) record(ctx context.Context, cycle *models.RenderCycle) {
	cycle.FinishedAt = s.now().UTC()
	if s.cycles == nil {
		return
	}
	if err := s.cycles.Append(context.WithoutCancel(ctx), *cycle); err != nil {
		s.log.Errorw("render_cycle_record_failed", "err", err, "cycle_id", cycle.CycleID)
	}
}

func (s *DashboardService) publish(ctx context.Context, render models.Render) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), LatestSnapshot(render)); err != nil {
		s.log.Errorw("snapshot_publish_failed", "err", err, "cycle_id", render.CycleID)
	}
}

// notifyLocked fans a render out to subscribers without blocking; s.mu must be held.
func (s *DashboardService) notifyLocked(render models.Render) {
	for _, ch := range s.subs {
		select {
		case ch <- render:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- render:
			default:
			}
		}
	}
}

func pointCounts(chart models.ChartSpec) map[models.SeriesKey]int {
	counts := make(map[models.SeriesKey]int, len(chart.Series))
	for _, s := range chart.Series {
		counts[s.Key] = s.Len()
	}
	return counts
}
