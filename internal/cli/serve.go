package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disaster_response/internal/config"
	"disaster_response/internal/handlers"
	"disaster_response/internal/ingest/mqtt"
	"disaster_response/internal/logger"
	"disaster_response/internal/metrics"
	"disaster_response/internal/notify"
	"disaster_response/internal/repository"
	"disaster_response/internal/repository/db"
	"disaster_response/internal/repository/postgres"
	"disaster_response/internal/server"
	"disaster_response/internal/service"

	_ "disaster_response/docs"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the HTTP API together with the optional data directory scanner,
MQTT ingestion and Kafka alert publisher.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sqlDB, err := openDB(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	opts := serviceOptions(cfg)
	opts.Observer = m

	if cfg.History.Enabled && cfg.History.Driver == config.DriverPostgres {
		pool, readings, err := postgres.Open(ctx, cfg.History.Postgres.DSN, cfg.History.Table, cfg.History.Postgres.MaxConns)
		if err != nil {
			return fmt.Errorf("init postgres history sink: %w", err)
		}
		defer pool.Close()
		opts.Readings = readings
		log.Infow("history_sink_postgres", "table", cfg.History.Table)
	}

	notifiers, closeNotifiers, err := buildNotifiers(cfg, log)
	if err != nil {
		return err
	}
	defer closeNotifiers()
	opts.Notifiers = notifiers

	services := service.NewService(repository.NewRepository(sqlDB), opts, log)

	if cfg.Detection.ScanInterval > 0 {
		log.Infow("scanner_started", "dir", cfg.Detection.DataDir, "interval", cfg.Detection.ScanInterval)
		go services.Scanner.Run(ctx, cfg.Detection.ScanInterval)
	}

	mqttStatus := handlers.MQTTStatus{Enabled: cfg.MQTT.Enabled}
	if cfg.MQTT.Enabled {
		client, err := startMQTT(cfg.MQTT, services.Pipeline, log)
		if err != nil {
			return err
		}
		defer client.Disconnect()
		mqttStatus.Broker, mqttStatus.Topic = cfg.MQTT.Broker, cfg.MQTT.Topic
	}

	apiHandler := handlers.NewHandler(services, log,
		handlers.WithMetrics(m),
		handlers.WithMQTT(mqttStatus),
	)

	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
	return nil
}

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		History: service.HistoryOptions{
			Enabled: cfg.History.Enabled,
			Driver:  cfg.History.Driver,
			Table:   cfg.History.Table,
		},
		Alerts: service.AlertOptions{
			Enabled:     cfg.Alerts.Enabled,
			RecentLimit: cfg.Alerts.RecentLimit,
		},
		Detection: service.DetectionOptions{
			DataDir: cfg.Detection.DataDir,
			Pattern: cfg.Detection.Pattern,
		},
		Auth: service.AuthOptions{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
	}
}

// openDB initializes the SQLite database backing alerts, users and the default history sink.
func openDB(cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// buildNotifiers returns the configured alert channels and a func closing them.
func buildNotifiers(cfg *config.Config, log *logger.Logger) ([]service.Notifier, func(), error) {
	var (
		out     []service.Notifier
		closers []func() error
	)
	if cfg.Alerts.ConsoleNotif {
		out = append(out, notify.NewConsole(log))
	}
	if cfg.Kafka.Enabled {
		k, err := notify.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		out = append(out, k)
		closers = append(closers, k.Close)
		log.Infow("kafka_publisher_enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnw("notifier_close_failed", "err", err)
			}
		}
	}
	return out, closeAll, nil
}

func startMQTT(cfg config.MQTTConfig, pipeline service.Pipeline, log *logger.Logger) (*mqtt.Client, error) {
	client, err := mqtt.NewClient(cfg, pipeline, log)
	if err != nil {
		return nil, fmt.Errorf("init mqtt client: %w", err)
	}
	if err := client.Connect(); err != nil {
		return nil, err
	}
	if err := client.Subscribe(); err != nil {
		client.Disconnect()
		return nil, err
	}
	return client, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
