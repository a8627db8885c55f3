package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"thermostat_dashboard/internal/models"
)

// ---- Test doubles ----

// readingRepoStub is a minimal stub for repository.ReadingRepo.
type readingRepoStub struct {
	mu        sync.Mutex
	appends   []models.TelemetryRecord
	appendErr error
	prunes    []time.Time
	latest    []models.TelemetryRecord
	gotLimit  int
}

func (s *readingRepoStub) Append(ctx context.Context, r models.TelemetryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends = append(s.appends, r)
	return s.appendErr
}

func (s *readingRepoStub) Latest(ctx context.Context, limit int) ([]models.TelemetryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotLimit = limit
	return s.latest, nil
}

func (s *readingRepoStub) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prunes = append(s.prunes, before)
	return 0, nil
}

// ---- Tests ----

func TestThermostatModel_Deterministic(t *testing.T) {
	t.Parallel()
	a, b := newThermostatModel(42), newThermostatModel(42)
	now := t0
	for i := 0; i < 50; i++ {
		now = now.Add(5 * time.Second)
		ra, rb := a.step(now, 5*time.Second), b.step(now, 5*time.Second)
		if ra.Mode != rb.Mode || models.Present(ra.AmbientTemperatureC) != models.Present(rb.AmbientTemperatureC) {
			t.Fatalf("step %d diverged: %+v vs %+v", i, ra, rb)
		}
		if models.Present(ra.AmbientTemperatureC) && *ra.AmbientTemperatureC != *rb.AmbientTemperatureC {
			t.Fatalf("step %d temperature diverged", i)
		}
	}
}

func TestThermostatModel_ModeFollowsSetpoints(t *testing.T) {
	t.Parallel()
	m := newThermostatModel(1)

	m.ambientC = 10
	if rec := m.step(t0, time.Second); rec.Mode != models.ModeHeat {
		t.Fatalf("cold room should heat, got %q", rec.Mode)
	}

	m.ambientC = 30
	if rec := m.step(t0, time.Second); rec.Mode != models.ModeCool {
		t.Fatalf("hot room should cool, got %q", rec.Mode)
	}

	m.ambientC = 22
	if rec := m.step(t0, time.Second); rec.Mode != models.ModeOff {
		t.Fatalf("room between setpoints should idle, got %q", rec.Mode)
	}
}

func TestThermostatModel_ReportsOnlyActiveSetpoint(t *testing.T) {
	t.Parallel()
	m := newThermostatModel(7)
	now := t0
	for i := 0; i < 2000; i++ {
		now = now.Add(time.Minute)
		rec := m.step(now, time.Minute)
		switch rec.Mode {
		case models.ModeHeat:
			if rec.HeatSetpointC == nil || rec.CoolSetpointC != nil {
				t.Fatalf("HEAT should report heat setpoint only: %+v", rec)
			}
		case models.ModeCool:
			if rec.CoolSetpointC == nil || rec.HeatSetpointC != nil {
				t.Fatalf("COOL should report cool setpoint only: %+v", rec)
			}
		default:
			if rec.HeatSetpointC != nil || rec.CoolSetpointC != nil {
				t.Fatalf("%s should report no setpoint: %+v", rec.Mode, rec)
			}
		}
		if models.Present(rec.AmbientHumidityPct) && (*rec.AmbientHumidityPct < 0 || *rec.AmbientHumidityPct > 100) {
			t.Fatalf("humidity out of range: %v", *rec.AmbientHumidityPct)
		}
	}
}

func TestSimulatorService_StepAppendsAndPrunes(t *testing.T) {
	t.Parallel()
	repo := &readingRepoStub{}
	sim := NewSimulatorService(repo, 1, time.Hour, nil)

	sim.Step(context.Background(), t0, 5*time.Second)
	sim.Step(context.Background(), t0.Add(5*time.Second), 5*time.Second)
	sim.Step(context.Background(), t0.Add(65*time.Second), 5*time.Second)

	if len(repo.appends) != 3 {
		t.Fatalf("want 3 readings, got %d", len(repo.appends))
	}
	if !repo.appends[1].Timestamp.Equal(t0.Add(5 * time.Second)) {
		t.Fatalf("reading timestamp: %v", repo.appends[1].Timestamp)
	}
	if len(repo.prunes) != 2 {
		t.Fatalf("want prunes on first step and after a minute, got %d", len(repo.prunes))
	}
	if want := t0.Add(65 * time.Second).Add(-time.Hour); !repo.prunes[1].Equal(want) {
		t.Fatalf("prune cutoff: want %v, got %v", want, repo.prunes[1])
	}
}

func TestSimulatorService_NoRetentionNeverPrunes(t *testing.T) {
	t.Parallel()
	repo := &readingRepoStub{}
	sim := NewSimulatorService(repo, 1, 0, nil)
	for i := 0; i < 5; i++ {
		sim.Step(context.Background(), t0.Add(time.Duration(i)*time.Hour), time.Second)
	}
	if len(repo.prunes) != 0 {
		t.Fatalf("want no prunes, got %d", len(repo.prunes))
	}
}

func TestSimulatorService_AppendErrorIsLogged(t *testing.T) {
	t.Parallel()
	repo := &readingRepoStub{appendErr: errors.New("locked")}
	log, logs := observedLogger()
	sim := NewSimulatorService(repo, 1, 0, log)

	sim.Step(context.Background(), t0, time.Second)
	if logs.FilterMessage("simulator_append_failed").Len() != 1 {
		t.Fatal("expected simulator_append_failed log")
	}
}

func TestSimulatorService_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	repo := &readingRepoStub{}
	sim := NewSimulatorService(repo, 1, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.appends) < 2 {
		t.Fatalf("want at least 2 readings, got %d", len(repo.appends))
	}
}

func TestFeedService_Records(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		defaultLim int
		limit      int
		want       int
	}{
		{"explicit", 0, 10, 10},
		{"zero uses default", 0, 0, defaultFeedLimit},
		{"configured default", 50, -1, 50},
		{"capped", 0, 1_000_000, maxFeedLimit},
		{"default capped", 50_000, 0, maxFeedLimit},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := &readingRepoStub{latest: sampleRecords()}
			got, err := NewFeedService(repo, tc.defaultLim).Records(context.Background(), tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.gotLimit != tc.want {
				t.Fatalf("limit: want %d, got %d", tc.want, repo.gotLimit)
			}
			if len(got) != 4 {
				t.Fatalf("records: %d", len(got))
			}
		})
	}
}
