package models

import "time"

// SeriesKey identifies one of the five logical series of the chart.
type SeriesKey string

const (
	SeriesTemperature  SeriesKey = "temperature"
	SeriesHumidity     SeriesKey = "humidity"
	SeriesMode         SeriesKey = "mode"
	SeriesHeatSetpoint SeriesKey = "heat_setpoint"
	SeriesCoolSetpoint SeriesKey = "cool_setpoint"
)

// SeriesKind tells whether points carry a number or a label.
type SeriesKind string

const (
	KindNumeric     SeriesKind = "numeric"
	KindCategorical SeriesKind = "categorical"
)

// Point is a single (time, value) pair. Label is set for categorical series.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
	Label string    `json:"label,omitempty"`
}

// Series is one chart trace in input order.
type Series struct {
	Key    SeriesKey  `json:"key"`
	Name   string     `json:"name"`
	Kind   SeriesKind `json:"kind"`
	Axis   AxisID     `json:"axis"`
	Points []Point    `json:"points"`
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// Color is a renderer color name.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorBlack Color = "black"
	ColorWhite Color = "white"
	ColorTan   Color = "tan"
	ColorGreen Color = "green"
)

// AxisID names a y-axis of the layout.
type AxisID string

const (
	AxisTemperature AxisID = "y"
	AxisHumidity    AxisID = "y2"
	AxisMode        AxisID = "y3"
)

// Axis describes one axis of the layout.
type Axis struct {
	Title     string  `json:"title"`
	Side      string  `json:"side,omitempty"`
	Overlay   AxisID  `json:"overlaying,omitempty"`
	RangeMode string  `json:"rangemode,omitempty"`
	Position  float64 `json:"position,omitempty"`
}

// Legend places the trace legend.
type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Layout is the axis description handed to the renderer: one shared time
// x-axis and three y-axes (temperature, humidity, mode).
type Layout struct {
	Title  string `json:"title"`
	XAxis  Axis   `json:"xaxis"`
	YAxis  Axis   `json:"yaxis"`
	YAxis2 Axis   `json:"yaxis2"`
	YAxis3 Axis   `json:"yaxis3"`
	Legend Legend `json:"legend"`
}

// ChartSpec is everything one render cycle produces.
type ChartSpec struct {
	Title      string   `json:"title"`
	Unit       Unit     `json:"unit"`
	Series     []Series `json:"series"`
	Layout     Layout   `json:"layout"`
	ModeColors []Color  `json:"mode_colors"` // one per point of the mode series
}

// SeriesByKey returns the series with the given key.
func (c ChartSpec) SeriesByKey(key SeriesKey) (Series, bool) {
	for _, s := range c.Series {
		if s.Key == key {
			return s, true
		}
	}
	return Series{}, false
}

// Marker styles the points of a trace. Color holds either a single Color or
// a per-point []Color.
type Marker struct {
	Color any `json:"color"`
}

// Trace is one Plotly trace.
type Trace struct {
	X             []time.Time `json:"x"`
	Y             []any       `json:"y"`
	Type          string      `json:"type"`
	Mode          string      `json:"mode,omitempty"`
	Name          string      `json:"name"`
	YAxis         AxisID      `json:"yaxis"`
	Marker        Marker      `json:"marker"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
}

// Figure is the payload understood by the browser renderer.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}
