package service

import (
	"fmt"

	"thermostat_dashboard/internal/models"
)

const (
	chartTitle    = "Ambient Temperature, Humidity, and Mode vs Time"
	humidityLabel = "Humidity (%)"
	modeLabel     = "Mode"
	modeAxisPos   = 0.95
	legendY       = -0.2
)

// BuildChart turns a record set into the five chart series and their axis
// layout. It does no I/O.
func BuildChart(records []models.TelemetryRecord, view models.ViewState) models.ChartSpec {
	var toUnit func(float64) float64
	if view.Fahrenheit() {
		toUnit = CelsiusToFahrenheit
	}
	unit := view.Unit
	if unit == "" {
		unit = models.Celsius
	}
	symbol := unit.Symbol()

	modes := ExtractModes(records)
	modeColorsPerPoint := make([]models.Color, len(modes))
	for i, p := range modes {
		modeColorsPerPoint[i] = ModeColor(p.Label)
	}

	series := []models.Series{
		{
			Key:    models.SeriesTemperature,
			Name:   view.TemperatureLabel(),
			Kind:   models.KindNumeric,
			Axis:   models.AxisTemperature,
			Points: ExtractNumeric(records, selectAmbientTemperature, toUnit),
		},
		{
			Key:    models.SeriesHumidity,
			Name:   humidityLabel,
			Kind:   models.KindNumeric,
			Axis:   models.AxisHumidity,
			Points: ExtractNumeric(records, selectAmbientHumidity, nil),
		},
		{
			Key:    models.SeriesMode,
			Name:   modeLabel,
			Kind:   models.KindCategorical,
			Axis:   models.AxisMode,
			Points: modes,
		},
		{
			Key:    models.SeriesHeatSetpoint,
			Name:   fmt.Sprintf("Heat Temperature Setpoint (%s)", symbol),
			Kind:   models.KindNumeric,
			Axis:   models.AxisTemperature,
			Points: ExtractNumeric(records, selectHeatSetpoint, toUnit),
		},
		{
			Key:    models.SeriesCoolSetpoint,
			Name:   fmt.Sprintf("Cool Temperature Setpoint (%s)", symbol),
			Kind:   models.KindNumeric,
			Axis:   models.AxisTemperature,
			Points: ExtractNumeric(records, selectCoolSetpoint, toUnit),
		},
	}

	return models.ChartSpec{
		Title:      chartTitle,
		Unit:       unit,
		Series:     series,
		Layout:     buildLayout(view),
		ModeColors: modeColorsPerPoint,
	}
}

func buildLayout(view models.ViewState) models.Layout {
	return models.Layout{
		Title: chartTitle,
		XAxis: models.Axis{Title: "Time"},
		YAxis: models.Axis{
			Title:     view.TemperatureLabel(),
			Side:      "left",
			RangeMode: "tozero",
		},
		YAxis2: models.Axis{
			Title:     humidityLabel,
			Side:      "right",
			Overlay:   models.AxisTemperature,
			RangeMode: "tozero",
		},
		YAxis3: models.Axis{
			Title:     modeLabel,
			Side:      "right",
			Overlay:   models.AxisTemperature,
			RangeMode: "tozero",
			Position:  modeAxisPos,
		},
		Legend: models.Legend{Orientation: "h", X: 0, Y: legendY},
	}
}

// LatestSnapshot picks the last point of every series.
func LatestSnapshot(render models.Render) models.Snapshot {
	snap := models.Snapshot{Unit: render.Chart.Unit, RenderedAt: render.RenderedAt}
	last := func(key models.SeriesKey) *models.Point {
		s, ok := render.Chart.SeriesByKey(key)
		if !ok || s.Len() == 0 {
			return nil
		}
		return &s.Points[s.Len()-1]
	}
	value := func(key models.SeriesKey) *float64 {
		if p := last(key); p != nil {
			return models.Float(p.Value)
		}
		return nil
	}

	snap.AmbientTemperature = value(models.SeriesTemperature)
	snap.AmbientHumidityPct = value(models.SeriesHumidity)
	snap.HeatSetpoint = value(models.SeriesHeatSetpoint)
	snap.CoolSetpoint = value(models.SeriesCoolSetpoint)
	if p := last(models.SeriesMode); p != nil {
		snap.Mode = p.Label
	}
	return snap
}
