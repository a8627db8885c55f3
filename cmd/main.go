package main

import "os"

// @title        Thermostat Dashboard API
// @version      1.0
// @description  Thermostat telemetry chart with a °C/°F toggle.
// @BasePath     /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
