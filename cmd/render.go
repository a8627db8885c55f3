package main

import (
	"encoding/json"
	"fmt"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/service"
	"thermostat_dashboard/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	renderUnit     string
	renderEndpoint string
	renderSpec     bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch telemetry once and print the chart as JSON",
	Long: `Fetches the telemetry endpoint once and writes the Plotly figure to stdout.
With --spec the renderer-neutral chart spec is written instead.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderUnit, "unit", "", "temperature unit, C or F (default from config)")
	renderCmd.Flags().StringVar(&renderEndpoint, "endpoint", "", "telemetry endpoint (default from config)")
	renderCmd.Flags().BoolVar(&renderSpec, "spec", false, "print the chart spec instead of the Plotly figure")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, unit, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if renderUnit != "" {
		if unit, err = models.ParseUnit(renderUnit); err != nil {
			return err
		}
	}
	endpoint := cfg.Telemetry.Endpoint
	if renderEndpoint != "" {
		endpoint = renderEndpoint
	}

	charts := service.NewChartService(telemetry.NewClient(endpoint, cfg.Telemetry.Timeout))
	spec, err := charts.Build(cmd.Context(), models.ViewState{Unit: unit})
	if err != nil {
		return err
	}

	var out interface{} = service.PlotlyFigure(spec)
	if renderSpec {
		out = spec
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
