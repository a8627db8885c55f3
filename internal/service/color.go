package service

import "thermostat_dashboard/internal/models"

// KnownModes is the closed set of mode labels with a dedicated color.
var KnownModes = []string{models.ModeHeat, models.ModeCool, models.ModeOff}

var modeColors = map[string]models.Color{
	models.ModeHeat: models.ColorRed,
	models.ModeCool: models.ColorBlue,
	models.ModeOff:  models.ColorBlack,
}

// DefaultModeColor is used for any label outside KnownModes, including "".
const DefaultModeColor = models.ColorWhite

// ModeColor maps a mode label to its bar color. Labels are matched exactly.
func ModeColor(mode string) models.Color {
	if c, ok := modeColors[mode]; ok {
		return c
	}
	return DefaultModeColor
}
