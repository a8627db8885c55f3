package main

import (
	"fmt"

	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/models"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "thermoview",
	Short: "Thermostat telemetry dashboard",
	Long: `thermoview charts ambient temperature, humidity, HVAC mode and setpoints
from a thermostat telemetry endpoint, with a °C/°F toggle.
Without a subcommand it runs the dashboard server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default is ./configs/config.yml)")
}

// loadConfig loads the configuration and resolves the default unit.
func loadConfig() (*config.Config, models.Unit, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, "", err
	}
	unit, err := models.ParseUnit(cfg.Dashboard.DefaultUnit)
	if err != nil {
		return nil, "", fmt.Errorf("dashboard.default_unit: %w", err)
	}
	return cfg, unit, nil
}
