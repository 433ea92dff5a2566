package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/oakwellmc/rota-monitor/internal/adapters/in/http"
	"github.com/oakwellmc/rota-monitor/internal/adapters/in/rabbitmq"
	"github.com/oakwellmc/rota-monitor/internal/adapters/out/cache"
	"github.com/oakwellmc/rota-monitor/internal/adapters/out/logger"
	"github.com/oakwellmc/rota-monitor/internal/adapters/out/rowstore"
	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/core/services/rota_monitor_service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	consoleLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.IsLocal())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	mainLogger := consoleLogger.WithModule("Main")

	mainLogger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	rowStoreAdapter := rowstore.NewRowStoreAdapter(cfg, consoleLogger.WithModule("RowStoreAdapter"))

	var cachePort out.CachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewCacheAdapter(cfg, consoleLogger)
		if err != nil {
			mainLogger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cachePort = cacheAdapter
	}

	rotaMonitorService := rota_monitor_service.NewRotaMonitorService(
		rowStoreAdapter,
		cachePort,
		consoleLogger,
		cfg,
	)

	router := gin.Default()
	controller := http.NewRotaMonitorController(rotaMonitorService, cfg)
	controller.RegisterRoutes(router)

	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewCacheInvalidationListener(
			rotaMonitorService,
			cfg,
			consoleLogger,
		)
		if err != nil {
			mainLogger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			mainLogger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				mainLogger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		mainLogger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			mainLogger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	mainLogger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
