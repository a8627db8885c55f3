package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

// ----------- Simulation constants -----------
const (
	simHeatSetpointC   = 20.0 // °C
	simCoolSetpointC   = 24.0 // °C
	simHysteresisC     = 0.5  // °C band around setpoints
	simHVACRateCPerMin = 0.15 // °C per minute while heating/cooling
	simLeakPerMin      = 0.01 // share of the indoor/outdoor gap lost per minute
	simOutdoorMeanC    = 14.0
	simOutdoorSwingC   = 9.0
	simOutdoorPeakHour = 15.0
	simHumidityMean    = 45.0
	simHumiditySwing   = 8.0
	simDropoutRate     = 0.03 // chance a sensor reading is missing
	simStartAmbientC   = 21.0

	pruneInterval = time.Minute
)

// thermostatModel is a single-zone house with a heat/cool thermostat.
type thermostatModel struct {
	rng      *rand.Rand
	ambientC float64
	mode     string
	heatSetC float64
	coolSetC float64
}

func newThermostatModel(seed int64) *thermostatModel {
	return &thermostatModel{
		rng:      rand.New(rand.NewSource(seed)),
		ambientC: simStartAmbientC,
		mode:     models.ModeOff,
		heatSetC: simHeatSetpointC,
		coolSetC: simCoolSetpointC,
	}
}

// outdoorC follows a daily sine curve peaking mid-afternoon (UTC).
func outdoorC(now time.Time) float64 {
	hour := float64(now.UTC().Hour()) + float64(now.UTC().Minute())/60
	phase := 2 * math.Pi * (hour - simOutdoorPeakHour) / 24
	return simOutdoorMeanC + simOutdoorSwingC*math.Cos(phase)
}

// step advances the model by elapsed and returns the reading the device
// would report. Setpoints are only reported for the active mode.
func (m *thermostatModel) step(now time.Time, elapsed time.Duration) models.TelemetryRecord {
	minutes := elapsed.Minutes()

	m.ambientC += (outdoorC(now) - m.ambientC) * simLeakPerMin * minutes
	switch m.mode {
	case models.ModeHeat:
		m.ambientC += simHVACRateCPerMin * minutes
	case models.ModeCool:
		m.ambientC -= simHVACRateCPerMin * minutes
	}
	m.ambientC += m.rng.NormFloat64() * 0.02

	switch {
	case m.ambientC < m.heatSetC-simHysteresisC:
		m.mode = models.ModeHeat
	case m.ambientC > m.coolSetC+simHysteresisC:
		m.mode = models.ModeCool
	case m.mode == models.ModeHeat && m.ambientC >= m.heatSetC+simHysteresisC:
		m.mode = models.ModeOff
	case m.mode == models.ModeCool && m.ambientC <= m.coolSetC-simHysteresisC:
		m.mode = models.ModeOff
	}

	hour := float64(now.UTC().Hour())
	humidity := simHumidityMean + simHumiditySwing*math.Sin(2*math.Pi*hour/24) + m.rng.NormFloat64()
	humidity = math.Max(0, math.Min(100, humidity))

	rec := models.TelemetryRecord{
		Timestamp: now.UTC(),
		Mode:      m.mode,
	}
	if m.rng.Float64() >= simDropoutRate {
		rec.AmbientTemperatureC = models.Float(Round2(m.ambientC))
	}
	if m.rng.Float64() >= simDropoutRate {
		rec.AmbientHumidityPct = models.Float(Round2(humidity))
	}
	switch m.mode {
	case models.ModeHeat:
		rec.HeatSetpointC = models.Float(m.heatSetC)
	case models.ModeCool:
		rec.CoolSetpointC = models.Float(m.coolSetC)
	}
	return rec
}

// SimulatorService writes synthetic thermostat readings for the local feed.
type SimulatorService struct {
	readings  repository.ReadingRepo
	model     *thermostatModel
	retention time.Duration
	log       *logger.Logger

	last      time.Time
	lastPrune time.Time
}

// NewSimulatorService returns a simulator seeded for reproducible output.
// A zero retention keeps readings forever.
func NewSimulatorService(readings repository.ReadingRepo, seed int64, retention time.Duration, log *logger.Logger) *SimulatorService {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatorService{
		readings:  readings,
		model:     newThermostatModel(seed),
		retention: retention,
		log:       log,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	s.Step(ctx, time.Now(), tick)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Step(ctx, now, tick)
		}
	}
}

// Step produces and stores one reading at now. fallback is the elapsed time
// assumed for the first step.
func (s *SimulatorService) Step(ctx context.Context, now time.Time, fallback time.Duration) models.TelemetryRecord {
	elapsed := fallback
	if !s.last.IsZero() {
		elapsed = now.Sub(s.last)
	}
	s.last = now

	rec := s.model.step(now, elapsed)
	if err := s.readings.Append(ctx, rec); err != nil {
		s.log.Errorw("simulator_append_failed", "err", err)
	}

	if s.retention > 0 && now.Sub(s.lastPrune) >= pruneInterval {
		s.lastPrune = now
		n, err := s.readings.Prune(ctx, now.Add(-s.retention))
		if err != nil {
			s.log.Errorw("simulator_prune_failed", "err", err)
		} else if n > 0 {
			s.log.Debugw("simulator_pruned", "rows", n)
		}
	}
	return rec
}
