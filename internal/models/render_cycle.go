package models

import "time"

// CycleStatus is the outcome of one fetch → build → render cycle.
type CycleStatus string

const (
	CycleRendered   CycleStatus = "RENDERED"
	CycleFailed     CycleStatus = "FAILED"
	CycleSuperseded CycleStatus = "SUPERSEDED"
)

// RenderCycle is a single entry of the render-cycle log.
type RenderCycle struct {
	CycleID    string            `json:"cycle_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Unit       Unit              `json:"unit"`
	Status     CycleStatus       `json:"status"`
	Error      string            `json:"error,omitempty"`
	Points     map[SeriesKey]int `json:"points,omitempty"` // points per series
}

// Render is the chart currently on display.
type Render struct {
	CycleID    string    `json:"cycle_id"`
	View       ViewState `json:"view"`
	Chart      ChartSpec `json:"chart"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Snapshot is the latest value of each series after a render.
type Snapshot struct {
	Unit               Unit      `json:"unit"`
	AmbientTemperature *float64  `json:"ambient_temperature,omitempty"`
	AmbientHumidityPct *float64  `json:"ambient_humidity_pct,omitempty"`
	HeatSetpoint       *float64  `json:"heat_setpoint,omitempty"`
	CoolSetpoint       *float64  `json:"cool_setpoint,omitempty"`
	Mode               string    `json:"mode,omitempty"`
	RenderedAt         time.Time `json:"rendered_at"`
}
