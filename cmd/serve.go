package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/handlers"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/publisher"
	"thermostat_dashboard/internal/repository"
	"thermostat_dashboard/internal/repository/db"
	"thermostat_dashboard/internal/server"
	"thermostat_dashboard/internal/service"
	"thermostat_dashboard/internal/telemetry"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, unit, err := loadConfig()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// optional snapshot publisher
	var pub service.Publisher
	if cfg.MQTT.Enabled {
		mq, err := publisher.New(cfg.MQTT, log)
		if err != nil {
			log.Fatalw("failed to connect to mqtt broker", "err", err, "broker", cfg.MQTT.Broker)
		}
		defer mq.Close()
		pub = mq
		log.Infow("mqtt_publisher_ready", "topic", mq.Topic(), "connected", mq.Connected())
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	fetcher := telemetry.NewClient(cfg.Telemetry.Endpoint, cfg.Telemetry.Timeout)
	services := service.NewService(repos, fetcher, service.Options{
		InitialView:      models.ViewState{Unit: unit},
		CancelSuperseded: cfg.CancelSuperseded(),
		Publisher:        pub,
		Log:              log,
		SimulatorSeed:    cfg.Simulator.Seed,
		Retention:        cfg.Simulator.Retention,
		FeedLimit:        cfg.Simulator.FeedLimit,
	})
	if !cfg.Simulator.Enabled {
		services.Feed = nil
	}
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Simulator.Enabled {
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	log.Infow("starting server",
		"port", cfg.Port,
		"endpoint", fetcher.Endpoint(),
		"unit", unit,
		"supersede", cfg.Dashboard.Supersede,
		"simulator", cfg.Simulator.Enabled,
	)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	dbPath := cfg.DB.Path
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "thermoview.db")
		dbPath = "thermoview.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
