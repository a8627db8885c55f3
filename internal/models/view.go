package models

import (
	"fmt"
	"strings"
)

// Unit is the temperature unit the chart is displayed in.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C", "F", "celsius", "fahrenheit" (any case) and the
// degree-sign forms. Empty input yields Celsius.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "°"))) {
	case "", "C", "CELSIUS":
		return Celsius, nil
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown unit %q, expected C or F", s)
	}
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// Symbol returns the display suffix, e.g. "°C".
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// ViewState is the UI-local state that drives a render cycle.
type ViewState struct {
	Unit Unit `json:"unit"`
}

// Fahrenheit reports whether temperature series are converted.
func (v ViewState) Fahrenheit() bool { return v.Unit == Fahrenheit }

// TemperatureLabel is the axis and legend label for temperature series.
func (v ViewState) TemperatureLabel() string {
	return fmt.Sprintf("Temperature (%s)", v.Unit.Symbol())
}

// Toggled returns the view with the unit flipped.
func (v ViewState) Toggled() ViewState {
	return ViewState{Unit: v.Unit.Toggle()}
}
