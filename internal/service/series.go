package service

import "thermostat_dashboard/internal/models"

// FieldSelector picks one numeric reading out of a record.
type FieldSelector func(models.TelemetryRecord) *float64

var (
	selectAmbientTemperature FieldSelector = func(r models.TelemetryRecord) *float64 { return r.AmbientTemperatureC }
	selectAmbientHumidity    FieldSelector = func(r models.TelemetryRecord) *float64 { return r.AmbientHumidityPct }
	selectHeatSetpoint       FieldSelector = func(r models.TelemetryRecord) *float64 { return r.HeatSetpointC }
	selectCoolSetpoint       FieldSelector = func(r models.TelemetryRecord) *float64 { return r.CoolSetpointC }
)

// ExtractNumeric keeps the records whose selected field is present and
// projects them to points, preserving input order. transform is applied to
// each value before rounding; nil means identity. Values that overflow
// during conversion are dropped.
func ExtractNumeric(records []models.TelemetryRecord, sel FieldSelector, transform func(float64) float64) []models.Point {
	points := make([]models.Point, 0, len(records))
	for _, r := range records {
		v := sel(r)
		if !models.Present(v) {
			continue
		}
		value := *v
		if transform != nil {
			value = transform(value)
		}
		if !finite(value) {
			continue
		}
		points = append(points, models.Point{Time: r.Timestamp, Value: Round2(value)})
	}
	return points
}

// ExtractModes keeps the records that carry a mode label.
func ExtractModes(records []models.TelemetryRecord) []models.Point {
	points := make([]models.Point, 0, len(records))
	for _, r := range records {
		if r.Mode == "" {
			continue
		}
		points = append(points, models.Point{Time: r.Timestamp, Label: r.Mode})
	}
	return points
}
