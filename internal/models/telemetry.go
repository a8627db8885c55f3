package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel marks a numeric reading the thermostat did not report.
const Sentinel = -999.0

// Thermostat mode labels.
const (
	ModeHeat = "HEAT"
	ModeCool = "COOL"
	ModeOff  = "OFF"
)

// TelemetryRecord is one thermostat observation as served by the telemetry endpoint.
// A nil numeric field means the key was absent from the payload; a field
// holding Sentinel means the device reported "no reading".
type TelemetryRecord struct {
	Timestamp           time.Time
	AmbientTemperatureC *float64 // °C
	AmbientHumidityPct  *float64 // %
	HeatSetpointC       *float64 // °C
	CoolSetpointC       *float64 // °C
	Mode                string   // HEAT | COOL | OFF | ...; "" when absent
}

// wireRecord mirrors the JSON field names of the endpoint.
type wireRecord struct {
	Timestamp                      string   `json:"Timestamp"`
	AmbientTemperatureCelsius      *float64 `json:"AmbientTemperatureCelsius"`
	AmbientHumidityPercent         *float64 `json:"AmbientHumidityPercent"`
	HeatTemperatureSetpointCelsius *float64 `json:"HeatTemperatureSetpointCelsius"`
	CoolTemperatureSetpointCelsius *float64 `json:"CoolTemperatureSetpointCelsius"`
	Mode                           *string  `json:"Mode,omitempty"`
}

const (
	layoutLocalDateTime = "2006-01-02T15:04:05"
	layoutDateTime      = "2006-01-02 15:04:05"
	layoutDate          = "2006-01-02"
)

var errMissingTimestamp = errors.New("missing Timestamp")

// ParseTimestamp accepts RFC3339 and the zone-less ISO-8601 forms the
// endpoint has been seen to emit. Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissingTimestamp
	}
	for _, layout := range []string{time.RFC3339Nano, layoutLocalDateTime, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Timestamp %q", s)
}

// UnmarshalJSON decodes a record from the endpoint wire format.
func (r *TelemetryRecord) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ts, err := ParseTimestamp(w.Timestamp)
	if err != nil {
		return err
	}
	*r = TelemetryRecord{
		Timestamp:           ts,
		AmbientTemperatureC: w.AmbientTemperatureCelsius,
		AmbientHumidityPct:  w.AmbientHumidityPercent,
		HeatSetpointC:       w.HeatTemperatureSetpointCelsius,
		CoolSetpointC:       w.CoolTemperatureSetpointCelsius,
	}
	if w.Mode != nil {
		r.Mode = *w.Mode
	}
	return nil
}

// MarshalJSON encodes the record in the endpoint wire format, writing the
// sentinel for absent numeric readings.
func (r TelemetryRecord) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		Timestamp:                      r.Timestamp.UTC().Format(time.RFC3339),
		AmbientTemperatureCelsius:      orSentinel(r.AmbientTemperatureC),
		AmbientHumidityPercent:         orSentinel(r.AmbientHumidityPct),
		HeatTemperatureSetpointCelsius: orSentinel(r.HeatSetpointC),
		CoolTemperatureSetpointCelsius: orSentinel(r.CoolSetpointC),
	}
	if r.Mode != "" {
		mode := r.Mode
		w.Mode = &mode
	}
	return json.Marshal(w)
}

// Present reports whether v holds an actual reading.
func Present(v *float64) bool {
	return v != nil && *v != Sentinel
}

// Float returns a pointer to v; handy for building records.
func Float(v float64) *float64 { return &v }

func orSentinel(v *float64) *float64 {
	if v == nil {
		return Float(Sentinel)
	}
	return v
}
