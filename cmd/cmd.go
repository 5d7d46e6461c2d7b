package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/apsystems-integration/internal/pkg/apsystems"
	"github.com/anicoll/apsystems-integration/internal/pkg/config"
	"github.com/anicoll/apsystems-integration/internal/pkg/database"
	"github.com/anicoll/apsystems-integration/internal/pkg/database/migration"
	"github.com/anicoll/apsystems-integration/internal/pkg/metrics"
	"github.com/anicoll/apsystems-integration/internal/pkg/model"
	"github.com/anicoll/apsystems-integration/internal/pkg/mqtt"
	"github.com/anicoll/apsystems-integration/internal/pkg/poller"
	"github.com/anicoll/apsystems-integration/internal/pkg/publisher"
	"github.com/anicoll/apsystems-integration/internal/pkg/sensor"
	"github.com/anicoll/apsystems-integration/internal/pkg/server"
	"github.com/anicoll/apsystems-integration/internal/pkg/sun"
)

const cleanupSchedule = "0 3 * * *"

func ApsystemsCommand(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger.Info("starting apsystems integration",
		zap.String("sid", cfg.ApiCfg.SystemID),
		zap.String("ecu", cfg.ApiCfg.ECUID),
		zap.String("timezone", loc.String()),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	api := apsystems.New(cfg.Credentials(),
		apsystems.WithBaseURL(cfg.ApiCfg.BaseURL),
		apsystems.WithLocation(loc),
	)
	observer := sun.Observer{
		Latitude:  lo.FromPtr(cfg.ObserverCfg.Latitude),
		Longitude: lo.FromPtr(cfg.ObserverCfg.Longitude),
		Location:  loc,
	}
	sensors := sensor.NewSet(cfg.Name, api, observer, sensor.GatingEnabled(cfg.Sunset))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		return err
	}

	registry := publisher.New()
	if cfg.MqttCfg.Host != "" {
		mqttSvc := mqtt.New(mqtt.NewClient(cfg.MqttCfg.Host, cfg.MqttCfg.Username, cfg.MqttCfg.Password, "apsystems-"+cfg.ApiCfg.ECUID))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		defer mqttSvc.Disconnect()
		if err := registry.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	var (
		cleaner Cleaner
		store   *database.Database
	)
	if cfg.DatabaseURL != "" {
		if cfg.MigrationsFolder != "" {
			if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
				return err
			}
		}
		store, err = database.New(ctx.Context, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := registry.RegisterPublisher("postgres", store); err != nil {
			return err
		}
		cleaner = store
	}
	if len(registry.Names()) == 0 {
		logger.Warn("no publishers configured, readings are only exposed by the status server")
	}

	device := model.Device{ID: cfg.ApiCfg.ECUID, Model: "ECU", Manufacturer: "APsystems"}
	p := poller.New(device, sensors, registry, m)

	var handler http.Handler
	if store != nil {
		handler = server.New(p, store, reg).Handler()
	} else {
		handler = server.New(p, nil, reg).Handler()
	}

	return run(ctx.Context, cfg, logger, p, cleaner, handler)
}

func newLogger(level string) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()
	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// run polls once, then on every interval until ctx is done. cleaner and
// handler are optional.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, p Poller, cleaner Cleaner, handler http.Handler) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)

	p.RegisterSensors(ctx)
	p.Tick(ctx)

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(cron.Every(cfg.PollInterval), cron.FuncJob(func() {
		p.Tick(ctx)
	}))
	if cleaner != nil {
		if _, err := c.AddFunc(cleanupSchedule, func() {
			if err := cleaner.Cleanup(ctx); err != nil {
				logger.Error("error cleaning up database", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	eg.Go(func() error {
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("context done")
		return ctx.Err()
	})

	if handler != nil && cfg.HTTPAddr != "" {
		srv := &http.Server{
			Handler:      handler,
			Addr:         cfg.HTTPAddr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		eg.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return eg.Wait()
}
