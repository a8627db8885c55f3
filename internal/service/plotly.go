package service

import (
	"time"

	"thermostat_dashboard/internal/models"
)

const modeHoverTemplate = "Mode <b>%{y}</b><extra></extra>"

var seriesColors = map[models.SeriesKey]models.Color{
	models.SeriesTemperature:  models.ColorTan,
	models.SeriesHumidity:     models.ColorGreen,
	models.SeriesHeatSetpoint: models.ColorRed,
	models.SeriesCoolSetpoint: models.ColorBlue,
}

// PlotlyFigure converts a chart spec into the trace/layout payload of the
// browser renderer. Numeric series become marker scatters, the mode series
// a bar trace colored per point.
func PlotlyFigure(spec models.ChartSpec) models.Figure {
	traces := make([]models.Trace, 0, len(spec.Series))
	for _, s := range spec.Series {
		x := make([]time.Time, len(s.Points))
		y := make([]any, len(s.Points))
		for i, p := range s.Points {
			x[i] = p.Time
			if s.Kind == models.KindCategorical {
				y[i] = p.Label
			} else {
				y[i] = p.Value
			}
		}

		tr := models.Trace{
			X:     x,
			Y:     y,
			Name:  s.Name,
			YAxis: s.Axis,
		}
		if s.Kind == models.KindCategorical {
			tr.Type = "bar"
			tr.HoverTemplate = modeHoverTemplate
			colors := spec.ModeColors
			if colors == nil {
				colors = []models.Color{}
			}
			tr.Marker = models.Marker{Color: colors}
		} else {
			tr.Type = "scatter"
			tr.Mode = "markers"
			tr.Marker = models.Marker{Color: seriesColors[s.Key]}
		}
		traces = append(traces, tr)
	}
	return models.Figure{Data: traces, Layout: spec.Layout}
}
