package handlers

import (
	"context"
	"sync"
	"time"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockDashboard struct {
	mu           sync.Mutex
	view         models.ViewState
	current      *models.Render
	outcome      service.CycleOutcome
	toggleCalls  int
	refreshCalls int
	subs         []chan models.Render
}

func (m *mockDashboard) View() models.ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *mockDashboard) Current() (models.Render, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return models.Render{}, false
	}
	return *m.current, true
}

func (m *mockDashboard) Toggle(ctx context.Context) service.CycleOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleCalls++
	m.view = m.view.Toggled()
	return m.outcome
}

func (m *mockDashboard) Refresh(ctx context.Context) service.CycleOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	return m.outcome
}

func (m *mockDashboard) Subscribe() (<-chan models.Render, func()) {
	ch := make(chan models.Render, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch, func() {}
}

// push delivers r to every subscriber.
func (m *mockDashboard) push(r models.Render) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		ch <- r
	}
}

func (m *mockDashboard) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

type mockCharts struct {
	spec     models.ChartSpec
	err      error
	lastView models.ViewState
	calls    int
}

func (m *mockCharts) Build(ctx context.Context, view models.ViewState) (models.ChartSpec, error) {
	m.calls++
	m.lastView = view
	return m.spec, m.err
}

type mockCycleLog struct {
	resp       []models.RenderCycle
	err        error
	lastFrom   time.Time
	lastTo     time.Time
	lastStatus string
}

func (m *mockCycleLog) List(ctx context.Context, f service.CycleFilter) ([]models.RenderCycle, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastStatus = f.Status
	return m.resp, m.err
}

type mockFeed struct {
	resp      []models.TelemetryRecord
	err       error
	lastLimit int
}

func (m *mockFeed) Records(ctx context.Context, limit int) ([]models.TelemetryRecord, error) {
	m.lastLimit = limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

var testTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// sampleRender builds a real chart from two records.
func sampleRender(unit models.Unit) models.Render {
	records := []models.TelemetryRecord{
		{Timestamp: testTime, AmbientTemperatureC: models.Float(20), AmbientHumidityPct: models.Float(40), Mode: models.ModeHeat, HeatSetpointC: models.Float(19)},
		{Timestamp: testTime.Add(time.Minute), AmbientTemperatureC: models.Float(models.Sentinel), AmbientHumidityPct: models.Float(41), Mode: models.ModeOff},
	}
	view := models.ViewState{Unit: unit}
	return models.Render{
		CycleID:    "cycle-" + string(unit),
		View:       view,
		Chart:      service.BuildChart(records, view),
		RenderedAt: testTime,
	}
}
