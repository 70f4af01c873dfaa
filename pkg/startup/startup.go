// Package startup assembles the service and brings its infrastructure up in
// order: tracing, the database (including migrations), the list feed consumer
// and the HTTP server. Start retries the whole sequence with Fibonacci
// backoff; Stop tears down whatever started, in reverse.
package startup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Ramsey-B/aster/config"
	listentryrepo "github.com/Ramsey-B/aster/internal/repositories/listentry"
	screeningrepo "github.com/Ramsey-B/aster/internal/repositories/screening"
	"github.com/Ramsey-B/aster/pkg/consolidated"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/listparse"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/processor"
	"github.com/Ramsey-B/aster/pkg/routes"
	"github.com/Ramsey-B/aster/pkg/routes/health"
	"github.com/Ramsey-B/aster/pkg/search"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/Ramsey-B/aster/pkg/tracing/exporters"
)

// App holds the assembled service. The component fields are populated during
// Start; deploying binaries read them to register request-scoped dependencies.
type App struct {
	Config config.Config
	Logger ectologger.Logger

	DB          database.DB
	Producer    *kafka.Producer
	Emitter     *events.Emitter
	Consumer    *kafka.Consumer
	Processor   *processor.Processor
	Screening   *matching.Service
	EntriesRepo *listentryrepo.Repository
	RunsRepo    *screeningrepo.Repository
	Index       *search.Index
	Checker     *health.Checker
	Echo        *echo.Echo

	tracerProvider *sdktrace.TracerProvider
	deps           []dependency
	started        int
}

type dependency struct {
	name  string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

// New creates an unstarted App
func New(cfg config.Config, logger ectologger.Logger) *App {
	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.deps = []dependency{
		{name: "tracing", start: app.startTracing, stop: app.stopTracing},
		{name: "database", start: app.startDatabase, stop: app.stopDatabase},
		{name: "consumer", start: app.startConsumer, stop: app.stopConsumer},
		{name: "server", start: app.startServer, stop: app.stopServer},
	}
	return app
}

// Start brings every dependency up in order, retrying the failed remainder
// with Fibonacci backoff up to StartupMaxAttempts.
func (a *App) Start(ctx context.Context) error {
	maxAttempts := a.Config.StartupMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	wait, next := 1, 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		a.Logger.WithContext(ctx).WithFields(map[string]any{"attempt": attempt}).Info("Beginning startup attempt")

		lastErr = a.startPending(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		a.Logger.WithContext(ctx).WithError(lastErr).WithFields(map[string]any{
			"attempt":      attempt,
			"wait_seconds": wait,
		}).Error("Startup attempt failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(wait) * time.Second):
		}
		wait, next = next, wait+next
	}

	return fmt.Errorf("startup failed after %d attempts: %w", maxAttempts, lastErr)
}

// startPending resumes from the first dependency that has not started yet, so
// a retry never reruns migrations or rebinds ports that already came up.
func (a *App) startPending(ctx context.Context) error {
	for a.started < len(a.deps) {
		dep := a.deps[a.started]
		a.Logger.WithContext(ctx).WithFields(map[string]any{"dependency": dep.name}).Info("Starting dependency")
		if err := dep.start(ctx); err != nil {
			return fmt.Errorf("failed to start %s: %w", dep.name, err)
		}
		a.started++
	}
	return nil
}

// Stop tears down the started dependencies in reverse order
func (a *App) Stop(ctx context.Context) error {
	var lastErr error
	for a.started > 0 {
		a.started--
		dep := a.deps[a.started]
		a.Logger.WithContext(ctx).WithFields(map[string]any{"dependency": dep.name}).Info("Stopping dependency")
		if err := dep.stop(ctx); err != nil {
			a.Logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"dependency": dep.name}).Error("Failed to stop dependency")
			lastErr = err
		}
	}
	return lastErr
}

func (a *App) startTracing(ctx context.Context) error {
	if !a.Config.TracingEnabled {
		return nil
	}

	var exporter sdktrace.SpanExporter
	switch a.Config.TracingExporter {
	case "otlp":
		exp, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: a.Config.TracingOTLPEndpoint,
			Protocol: a.Config.TracingOTLPProtocol,
			Insecure: a.Config.TracingOTLPInsecure,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return err
		}
		exporter = exp
	default:
		exporter = &exporters.ConsoleExporter{}
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(a.Config.AppName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(a.Config.AppName))
	a.tracerProvider = tp

	return nil
}

func (a *App) stopTracing(ctx context.Context) error {
	if a.tracerProvider == nil {
		return nil
	}
	return a.tracerProvider.Shutdown(ctx)
}

// startDatabase connects, migrates and then builds everything that hangs off
// the database handle.
func (a *App) startDatabase(ctx context.Context) error {
	cfg := a.Config

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		User:            cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, a.Logger)
	if err != nil {
		return err
	}

	if err := db.Migrate(&database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	}, cfg.DatabaseName); err != nil {
		db.Close()
		return err
	}

	a.DB = db
	a.buildComponents()
	return nil
}

func (a *App) stopDatabase(ctx context.Context) error {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.Logger.WithContext(ctx).WithError(err).Error("Failed to close producer")
		}
	}
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// buildComponents wires the domain components once the database is up
func (a *App) buildComponents() {
	cfg := a.Config
	log := a.Logger

	a.EntriesRepo = listentryrepo.NewRepository(a.DB, log)
	a.RunsRepo = screeningrepo.NewRepository(a.DB, log)

	a.Producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, log)
	a.Emitter = events.NewEmitter(a.Producer, log)

	parser := listparse.NewParser(log, listparse.Config{
		Numeric:      listparse.PassConfig{MaxEntriesBefore: cfg.ParserNumericPassMaxEntries},
		Dashed:       listparse.PassConfig{MaxEntriesBefore: cfg.ParserDashedPassMaxEntries},
		AltEnglish:   listparse.PassConfig{MaxEntriesBefore: cfg.ParserAltPassMaxEntries},
		MaxSpanBytes: cfg.ParserMaxSpanBytes,
	})
	adapter := consolidated.NewAdapter(log)
	a.Processor = processor.NewProcessor(log, parser, adapter, a.EntriesRepo, a.Emitter)

	engine := matching.NewEngine(log, matching.EngineConfig{
		MinMatchScore: cfg.MinMatchScore,
		MaxCandidates: cfg.MaxMatchCandidates,
		Workers:       cfg.ScreeningWorkers,
		NameAlgorithm: cfg.ScreeningNameAlgorithm,
	})
	a.Screening = matching.NewService(log, engine, a.EntriesRepo, a.RunsRepo, a.Emitter)

	a.Index = search.NewIndex(log)

	a.Consumer = kafka.NewConsumer(cfg, log, a.Processor.HandleMessage)

	var consumerHealth interface{ Health() bool }
	if cfg.KafkaConsumerEnabled {
		consumerHealth = a.Consumer
	}
	a.Checker = health.NewChecker(a.DB, consumerHealth, cfg.AppName)
}

func (a *App) startConsumer(ctx context.Context) error {
	if !a.Config.KafkaConsumerEnabled {
		a.Logger.WithContext(ctx).Info("List feed consumer disabled")
		return nil
	}
	return a.Consumer.Start(ctx)
}

func (a *App) stopConsumer(ctx context.Context) error {
	if !a.Config.KafkaConsumerEnabled {
		return nil
	}
	return a.Consumer.Stop()
}

func (a *App) startServer(ctx context.Context) error {
	cfg := a.Config

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	routes.Register(e, a.Checker)
	a.Echo = e

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.WithError(err).Error("HTTP server stopped")
		}
	}()

	a.Checker.SetReady(true)
	return nil
}

func (a *App) stopServer(ctx context.Context) error {
	if a.Echo == nil {
		return nil
	}
	a.Checker.SetReady(false)
	return a.Echo.Shutdown(ctx)
}
