package main

import (
	"fmt"

	"github.com/newthinker/mercado/internal/app"
	"github.com/newthinker/mercado/internal/collector"
	"github.com/newthinker/mercado/internal/collector/yahoo"
	"github.com/newthinker/mercado/internal/config"
	"github.com/newthinker/mercado/internal/logger"
	"github.com/newthinker/mercado/internal/metrics"
	"github.com/newthinker/mercado/internal/news"
	"github.com/newthinker/mercado/internal/notifier"
	"github.com/newthinker/mercado/internal/notifier/email"
	"github.com/newthinker/mercado/internal/notifier/telegram"
	"github.com/newthinker/mercado/internal/notifier/webhook"
	"github.com/newthinker/mercado/internal/storage/archive"
	"go.uber.org/zap"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	return logger.Must(logger.Options{Development: debug, Service: "mercado"})
}

// buildApp wires collectors, fundamentals, news, archive storage and metrics into an App.
func buildApp(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) (*app.App, error) {
	collectors := collector.NewRegistry()
	fundamentals := collector.NewFundamentalRegistry()
	if cc, ok := cfg.Collectors["yahoo"]; ok && cc.Enabled {
		y := yahoo.New()
		if err := y.Init(collector.Config{
			Enabled:    cc.Enabled,
			BaseURL:    cc.BaseURL,
			SummaryURL: cc.SummaryURL,
			Timeout:    cc.Timeout,
			RateLimit:  cc.RateLimit,
		}); err != nil {
			return nil, fmt.Errorf("initializing yahoo collector: %w", err)
		}
		collectors.Register(y)
		fundamentals.Register(y)
	}
	if len(collectors.GetAll()) == 0 {
		return nil, fmt.Errorf("no market data collector enabled")
	}

	var provider news.Provider
	if cfg.News.Enabled {
		feed := news.NewGoogleNews(cfg.News.FeedURL, cfg.News.Timeout).
			WithLocale(cfg.News.Language, cfg.News.Region)
		provider = news.NewCachedProvider(feed, cfg.News.CacheTTL)
	}

	store, err := archive.New(archive.Config{
		Backend: cfg.Storage.Archive.Type,
		Path:    cfg.Storage.Archive.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Storage.Archive.S3.Bucket,
			Endpoint:  cfg.Storage.Archive.S3.Endpoint,
			Region:    cfg.Storage.Archive.S3.Region,
			AccessKey: cfg.Storage.Archive.S3.AccessKey,
			SecretKey: cfg.Storage.Archive.S3.SecretKey,
			Prefix:    cfg.Storage.Archive.S3.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating archive storage: %w", err)
	}

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return nil, err
	}

	return app.New(cfg, app.Deps{
		Data:         collectors,
		Fundamentals: fundamentals,
		News:         provider,
		Archive:      store,
		Notifiers:    notifiers,
		Metrics:      reg,
		Logger:       log,
	}), nil
}

func buildNotifiers(cfg *config.Config) (*notifier.Registry, error) {
	reg := notifier.NewRegistry()
	for name, nc := range cfg.Notifiers {
		if !nc.Enabled {
			continue
		}

		var n notifier.Notifier
		var err error
		switch name {
		case "telegram":
			n, err = telegram.New(nc.BotToken, nc.ChatID)
		case "email":
			n, err = email.New(email.Config{
				Host:     nc.Host,
				Port:     nc.Port,
				Username: nc.Username,
				Password: nc.Password,
				From:     nc.From,
				To:       nc.To,
			})
		case "webhook":
			n, err = webhook.New(nc.URL, nc.Headers)
		default:
			return nil, fmt.Errorf("unknown notifier %q", name)
		}
		if err != nil {
			return nil, err
		}
		if err := reg.Register(n); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
