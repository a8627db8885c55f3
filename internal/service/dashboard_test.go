package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/telemetry"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---- Test doubles ----

// fakeFetcher answers each call through fn; call numbers start at 1.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) ([]models.TelemetryRecord, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]models.TelemetryRecord, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fn(ctx, call)
}

func staticFetcher(records []models.TelemetryRecord, err error) *fakeFetcher {
	return &fakeFetcher{fn: func(context.Context, int) ([]models.TelemetryRecord, error) {
		return records, err
	}}
}

type fakePublisher struct {
	mu    sync.Mutex
	snaps []models.Snapshot
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, snap models.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
	return p.err
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.New(core), logs
}

func receive(t *testing.T, ch <-chan models.Render) models.Render {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for render")
		return models.Render{}
	}
}

// ---- Tests ----

func TestDashboard_InitialState(t *testing.T) {
	t.Parallel()
	d := NewDashboardService(staticFetcher(nil, nil), nil, DashboardOptions{})

	if got := d.View().Unit; got != models.Celsius {
		t.Fatalf("default unit: want C, got %q", got)
	}
	if _, ok := d.Current(); ok {
		t.Fatal("no chart should be displayed before the first cycle")
	}

	d2 := NewDashboardService(staticFetcher(nil, nil), nil, DashboardOptions{
		InitialView: models.ViewState{Unit: models.Fahrenheit},
	})
	if got := d2.View().Unit; got != models.Fahrenheit {
		t.Fatalf("initial unit: want F, got %q", got)
	}
}

func TestDashboard_RefreshRendersAndRecords(t *testing.T) {
	t.Parallel()
	repo := &fakeCycleRepo{}
	log, logs := observedLogger()
	d := NewDashboardService(staticFetcher(sampleRecords(), nil), repo, DashboardOptions{Log: log})

	out := d.Refresh(context.Background())

	if out.Cycle.Status != models.CycleRendered || out.Render == nil {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Cycle.CycleID == "" || out.Cycle.FinishedAt.Before(out.Cycle.StartedAt) {
		t.Fatalf("cycle bookkeeping: %+v", out.Cycle)
	}
	if out.Cycle.Points[models.SeriesTemperature] != 3 || out.Cycle.Points[models.SeriesMode] != 3 {
		t.Fatalf("point counts: %v", out.Cycle.Points)
	}

	cur, ok := d.Current()
	if !ok || cur.CycleID != out.Cycle.CycleID {
		t.Fatalf("current render: ok=%v %+v", ok, cur)
	}
	if got := repo.statuses(); len(got) != 1 || got[0] != models.CycleRendered {
		t.Fatalf("recorded statuses: %v", got)
	}
	if logs.FilterMessage("render_cycle_rendered").Len() != 1 {
		t.Fatal("expected render_cycle_rendered log")
	}
}

func TestDashboard_ToggleTwiceReturnsToCelsius(t *testing.T) {
	t.Parallel()
	d := NewDashboardService(staticFetcher(sampleRecords(), nil), nil, DashboardOptions{})

	first := d.Toggle(context.Background())
	if first.View.Unit != models.Fahrenheit || first.Render.Chart.Unit != models.Fahrenheit {
		t.Fatalf("first toggle: %+v", first.View)
	}
	temps, _ := first.Render.Chart.SeriesByKey(models.SeriesTemperature)
	if temps.Points[0].Value != 68 {
		t.Fatalf("first toggle should display °F, got %v", temps.Points[0].Value)
	}

	second := d.Toggle(context.Background())
	if second.View.Unit != models.Celsius || d.View().Unit != models.Celsius {
		t.Fatalf("second toggle: %+v", second.View)
	}
	temps, _ = second.Render.Chart.SeriesByKey(models.SeriesTemperature)
	if temps.Points[0].Value != 20 {
		t.Fatalf("second toggle should display °C, got %v", temps.Points[0].Value)
	}
}

func TestDashboard_FailedCycleKeepsPriorChart(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		kind string
	}{
		{"http 500", &telemetry.FetchError{StatusCode: 500, Body: "boom"}, "fetch"},
		{"transport", &telemetry.FetchError{Err: errors.New("connection refused")}, "fetch"},
		{"bad body", &telemetry.ParseError{Err: errors.New("unexpected end of JSON input")}, "parse"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := &fakeCycleRepo{}
			pub := &fakePublisher{}
			log, logs := observedLogger()
			f := &fakeFetcher{fn: func(_ context.Context, call int) ([]models.TelemetryRecord, error) {
				if call == 1 {
					return sampleRecords(), nil
				}
				return nil, tc.err
			}}
			d := NewDashboardService(f, repo, DashboardOptions{Log: log, Publisher: pub})

			ok := d.Refresh(context.Background())
			failed := d.Toggle(context.Background())

			if failed.Cycle.Status != models.CycleFailed || failed.Render != nil {
				t.Fatalf("want failed outcome without render, got %+v", failed)
			}
			if failed.Cycle.Error == "" {
				t.Fatal("failed cycle should carry the error text")
			}
			cur, _ := d.Current()
			if cur.CycleID != ok.Cycle.CycleID || cur.View.Unit != models.Celsius {
				t.Fatalf("prior chart must stay on display, got %+v", cur)
			}
			if d.View().Unit != models.Fahrenheit {
				t.Fatal("view state still flips on a failed cycle")
			}
			if pub.count() != 1 {
				t.Fatalf("failed cycle must not publish, got %d publishes", pub.count())
			}

			entries := logs.FilterMessage("render_cycle_failed").All()
			if len(entries) != 1 {
				t.Fatalf("want 1 render_cycle_failed log, got %d", len(entries))
			}
			if entries[0].Level != zapcore.ErrorLevel {
				t.Fatalf("want error level, got %v", entries[0].Level)
			}
			if got := entries[0].ContextMap()["kind"]; got != tc.kind {
				t.Fatalf("kind field: want %q, got %v", tc.kind, got)
			}
			if got := repo.statuses(); len(got) != 2 || got[1] != models.CycleFailed {
				t.Fatalf("recorded statuses: %v", got)
			}
		})
	}
}

func TestDashboard_CancelPolicySupersedesInFlightCycle(t *testing.T) {
	t.Parallel()
	repo := &fakeCycleRepo{}
	started := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]models.TelemetryRecord, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return sampleRecords(), nil
	}}
	log, logs := observedLogger()
	d := NewDashboardService(f, repo, DashboardOptions{CancelSuperseded: true, Log: log})

	firstDone := make(chan CycleOutcome, 1)
	go func() { firstDone <- d.Refresh(context.Background()) }()
	<-started

	second := d.Toggle(context.Background())
	first := <-firstDone

	if first.Cycle.Status != models.CycleSuperseded || first.Render != nil {
		t.Fatalf("first cycle should be superseded, got %+v", first.Cycle)
	}
	if second.Cycle.Status != models.CycleRendered {
		t.Fatalf("second cycle should render, got %+v", second.Cycle)
	}
	cur, _ := d.Current()
	if cur.CycleID != second.Cycle.CycleID || cur.View.Unit != models.Fahrenheit {
		t.Fatalf("display should show the newest cycle, got %+v", cur)
	}
	if logs.FilterMessage("render_cycle_failed").Len() != 0 {
		t.Fatal("a superseded cycle is not a failure")
	}
	if logs.FilterMessage("render_cycle_superseded").Len() != 1 {
		t.Fatal("expected render_cycle_superseded log")
	}
}

func TestDashboard_LastWriterPolicyLetsSlowCycleWin(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]models.TelemetryRecord, error) {
		if call == 1 {
			close(started)
			<-release
		}
		return sampleRecords(), nil
	}}
	d := NewDashboardService(f, nil, DashboardOptions{CancelSuperseded: false})

	firstDone := make(chan CycleOutcome, 1)
	go func() { firstDone <- d.Refresh(context.Background()) }()
	<-started

	second := d.Toggle(context.Background())
	close(release)
	first := <-firstDone

	if first.Cycle.Status != models.CycleRendered || second.Cycle.Status != models.CycleRendered {
		t.Fatalf("both cycles render: first=%s second=%s", first.Cycle.Status, second.Cycle.Status)
	}
	cur, _ := d.Current()
	if cur.CycleID != first.Cycle.CycleID || cur.View.Unit != models.Celsius {
		t.Fatalf("last finishing cycle owns the display, got %+v", cur)
	}
	if d.View().Unit != models.Fahrenheit {
		t.Fatal("view state follows the toggle regardless of display")
	}
}

func TestDashboard_Subscribe(t *testing.T) {
	t.Parallel()
	d := NewDashboardService(staticFetcher(sampleRecords(), nil), nil, DashboardOptions{})

	ch, unsubscribe := d.Subscribe()
	out := d.Refresh(context.Background())
	if got := receive(t, ch); got.CycleID != out.Cycle.CycleID {
		t.Fatalf("subscriber got cycle %q, want %q", got.CycleID, out.Cycle.CycleID)
	}

	// A slow reader only sees the newest render.
	d.Refresh(context.Background())
	latest := d.Refresh(context.Background())
	if got := receive(t, ch); got.CycleID != latest.Cycle.CycleID {
		t.Fatalf("slow subscriber got %q, want newest %q", got.CycleID, latest.Cycle.CycleID)
	}

	unsubscribe()
	unsubscribe()
	if _, open := <-ch; open {
		t.Fatal("channel should be closed after unsubscribe")
	}
	d.Refresh(context.Background())
}

func TestDashboard_Publish(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{err: errors.New("broker down")}
	log, logs := observedLogger()
	d := NewDashboardService(staticFetcher(sampleRecords(), nil), nil, DashboardOptions{Publisher: pub, Log: log})

	out := d.Refresh(context.Background())
	if out.Cycle.Status != models.CycleRendered {
		t.Fatalf("publish errors do not fail the cycle, got %s", out.Cycle.Status)
	}
	if pub.count() != 1 {
		t.Fatalf("want 1 publish, got %d", pub.count())
	}
	snap := pub.snaps[0]
	if snap.Mode != "FAN" || snap.AmbientTemperature == nil || *snap.AmbientTemperature != 23.46 {
		t.Fatalf("snapshot: %+v", snap)
	}
	if logs.FilterMessage("snapshot_publish_failed").Len() != 1 {
		t.Fatal("expected snapshot_publish_failed log")
	}
}

func TestDashboard_RecordErrorIsLogged(t *testing.T) {
	t.Parallel()
	repo := &fakeCycleRepo{appendErr: errors.New("disk full")}
	log, logs := observedLogger()
	d := NewDashboardService(staticFetcher(sampleRecords(), nil), repo, DashboardOptions{Log: log})

	if out := d.Refresh(context.Background()); out.Cycle.Status != models.CycleRendered {
		t.Fatalf("status: %s", out.Cycle.Status)
	}
	if logs.FilterMessage("render_cycle_record_failed").Len() != 1 {
		t.Fatal("expected render_cycle_record_failed log")
	}
}

func TestChartService_Build(t *testing.T) {
	t.Parallel()
	spec, err := NewChartService(staticFetcher(sampleRecords(), nil)).Build(context.Background(), models.ViewState{Unit: models.Fahrenheit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Unit != models.Fahrenheit || len(spec.Series) != 5 {
		t.Fatalf("spec: unit=%q series=%d", spec.Unit, len(spec.Series))
	}

	want := &telemetry.FetchError{StatusCode: 503}
	_, err = NewChartService(staticFetcher(nil, want)).Build(context.Background(), models.ViewState{})
	var fe *telemetry.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 503 {
		t.Fatalf("want FetchError 503, got %v", err)
	}
}
