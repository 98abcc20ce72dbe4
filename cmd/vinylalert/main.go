package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/wfarner/vinylalert/internal/cache"
	"github.com/wfarner/vinylalert/internal/config"
	"github.com/wfarner/vinylalert/internal/currency"
	"github.com/wfarner/vinylalert/internal/discogs"
	"github.com/wfarner/vinylalert/internal/filter"
	"github.com/wfarner/vinylalert/internal/logger"
	"github.com/wfarner/vinylalert/internal/notify"
	"github.com/wfarner/vinylalert/internal/wantlist"
	"github.com/wfarner/vinylalert/internal/watch"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zlog.Sync()

	store, err := cache.New(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	client := discogs.NewClient(cfg.UserAgent, cfg.DiscogsToken, store)
	scraper := discogs.NewScraper(cfg.UserAgent, zlog)
	source := discogs.NewMarketplace(client, scraper)

	var wants wantlist.Source
	if cfg.WantlistPath != "" {
		wants = wantlist.NewFile(cfg.WantlistPath)
	} else {
		wants = wantlist.NewList(client, cfg.ListID)
	}

	var notifiers []notify.Notifier
	if cfg.PushbulletToken != "" {
		notifiers = append(notifiers, notify.NewPushbullet(cfg.PushbulletToken))
	}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("connecting to telegram: %w", err)
		}
		notifiers = append(notifiers, tg)
	}

	watcher := watch.New(watch.Config{
		Currency: cfg.Currency,
		Criteria: filter.Criteria{
			Country:              cfg.Country,
			MinSellerRating:      cfg.MinSellerRating,
			MinSellerSales:       cfg.MinSellerSales,
			MinMediaCondition:    cfg.MinMediaCondition,
			MinSleeveCondition:   cfg.MinSleeveCondition,
			AcceptGenericSleeve:  cfg.AcceptGenericSleeve,
			AcceptNoSleeve:       cfg.AcceptNoSleeve,
			AcceptUngradedSleeve: cfg.AcceptUngradedSleeve,
		},
	}, source, currency.NewExchangeRateHost(store), wants, notify.NewMulti(notifiers...), zlog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cycle := func() {
		if err := watcher.RunCycle(ctx); err != nil && ctx.Err() == nil {
			zlog.Errorw("cycle failed", "error", err)
		}
	}

	// Overlapping cycles are dropped rather than queued; a slow pass should
	// not pile up behind itself.
	cr := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := cr.AddFunc(fmt.Sprintf("@every %s", cfg.PollInterval), cycle); err != nil {
		return fmt.Errorf("scheduling watch cycle: %w", err)
	}

	zlog.Infow("watcher starting", "interval", cfg.PollInterval, "country", cfg.Country, "currency", cfg.Currency)
	cycle()
	cr.Start()

	<-ctx.Done()
	zlog.Info("shutting down")
	<-cr.Stop().Done()
	return nil
}
