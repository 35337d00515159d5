package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gradyserv/marketsync/internal/api/handlers"
	"github.com/gradyserv/marketsync/internal/api/middleware"
	"github.com/gradyserv/marketsync/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and sync scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newCLILogger(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := buildApp(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer app.close()

	sched, err := engineScheduler(app)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	e := buildRouter(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"addr", addr,
		"sync_interval", cfg.Schedule.SyncInterval,
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func buildRouter(app *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(app.log))
	e.Use(middleware.RequestLog(app.log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(app.store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	mappings := handlers.NewMappingHandler(app.store)
	g := e.Group("/api/v1/mappings")
	g.GET("", mappings.List)
	g.POST("", mappings.Create)
	g.GET("/:id", mappings.Get)
	g.PUT("/:id", mappings.Update)
	g.PUT("/:id/enabled", mappings.SetEnabled)
	g.DELETE("/:id", mappings.Delete)

	api := humaecho.New(e, huma.DefaultConfig("marketsync", Version))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(
		app.governor, app.queue, app.classifier,
	))
	handlers.RegisterReviseRoutes(api, handlers.NewReviseHandler(app.engine))
	handlers.RegisterSyncRoutes(api, handlers.NewSyncHandler(app.engine))
	handlers.RegisterRevisionRoutes(api, handlers.NewRevisionsHandler(app.store))

	return e
}
