package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/gradyserv/marketsync/internal/amazon"
	"github.com/gradyserv/marketsync/internal/config"
	"github.com/gradyserv/marketsync/internal/ebay"
	"github.com/gradyserv/marketsync/internal/engine"
	"github.com/gradyserv/marketsync/internal/notify"
	"github.com/gradyserv/marketsync/internal/store"
	"github.com/gradyserv/marketsync/pkg/logger"
)

// app holds the fully wired revision pipeline shared by the serve, sync,
// and revise commands.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	store      *store.PostgresStore
	governor   *ebay.Governor
	classifier *ebay.Classifier
	queue      *ebay.Queue
	engine     *engine.Engine
}

// buildApp wires the full stack from configuration: store, rate governor,
// Trading client, classifier, offer client, planner, queue, source feed
// client, notifier, and engine. The queue worker is started; callers must
// call close when done.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	appLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	governor := ebay.NewGovernor(
		ebay.WithDailyLimit(cfg.Ebay.RateLimit.DailyLimit),
	)

	trading := ebay.NewTradingClient(governor, cfg.Ebay.AuthToken,
		ebay.WithTradingURL(cfg.Ebay.TradingURL),
		ebay.WithSiteID(cfg.Ebay.SiteID),
		ebay.WithCompatibilityLevel(cfg.Ebay.CompatibilityLevel),
	)

	classifier := ebay.NewClassifier(trading)

	tokens := ebay.NewOAuthTokenProvider(cfg.Ebay.AppID, cfg.Ebay.CertID,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
	)

	offers := ebay.NewRESTOfferClient(tokens,
		ebay.WithInventoryURL(cfg.Ebay.InventoryURL),
		ebay.WithOfferMarketplace(cfg.Ebay.Marketplace),
	)

	planner := ebay.NewPlanner(trading, classifier, offers,
		ebay.WithPlannerLogger(appLog),
	)

	queue := ebay.NewQueue(planner, ebay.WithQueueLogger(appLog))
	queue.Start()

	source := amazon.NewClient(cfg.Source.Endpoint,
		amazon.WithAPIKey(cfg.Source.APIKey),
		amazon.WithTimeout(cfg.Source.Timeout),
		amazon.WithLogger(appLog),
	)

	var notifier notify.Notifier = notify.NewNoOpNotifier(appLog)
	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL != "" {
		notifier = notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}

	eng := engine.NewEngine(st, source, queue, notifier,
		engine.WithLogger(appLog),
	)

	return &app{
		cfg:        cfg,
		log:        appLog,
		store:      st,
		governor:   governor,
		classifier: classifier,
		queue:      queue,
		engine:     eng,
	}, nil
}

func engineScheduler(a *app) (*engine.Scheduler, error) {
	return engine.NewScheduler(a.engine, a.cfg.Schedule.SyncInterval, a.log)
}

// close drains the queue and releases the database pool.
func (a *app) close() {
	a.queue.Stop()
	a.store.Close()
}

func newCLILogger(level string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(level),
	})
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
