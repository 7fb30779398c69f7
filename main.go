package main

import (
	"Pollster/bot"
	"Pollster/content"
	"Pollster/core"
	"Pollster/holder"
	"Pollster/lib/sl"
	"Pollster/storage"
	"Pollster/survey"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/fsnotify.v1"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := core.MustLoad(*configPath)
	log := setupLogger(conf.Env)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		sl.Secret(conf.TelegramApiKey),
	).Info("starting survey bot")

	// the output language must be loadable even when users cannot pick it
	languages := conf.LanguageCodes()
	hasOutput := false
	for _, code := range languages {
		if code == conf.OutputLanguage {
			hasOutput = true
		}
	}
	if !hasOutput {
		languages = append(languages, conf.OutputLanguage)
	}
	provider, err := content.NewProvider(conf.Content.Locales, conf.Content.Questions, languages)
	if err != nil {
		log.Error("loading content", sl.Err(err))
		return
	}

	if conf.Content.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			log.Error("creating content watcher", sl.Err(err))
			return
		}
		defer watcher.Close()
		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if event.Op&fsnotify.Write == fsnotify.Write {
						if err := provider.Reload(); err != nil {
							log.Warn("content reload rejected", sl.Err(err))
						} else {
							log.Info("content reloaded", slog.String("file", event.Name))
						}
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					log.Warn("content watcher", sl.Err(err))
				}
			}
		}()
		for _, path := range []string{conf.Content.Locales, conf.Content.Questions} {
			if err := watcher.Add(path); err != nil {
				log.Warn("watching content file", slog.String("file", path), sl.Err(err))
			}
		}
	}

	// Initialize storage based on config
	var sessions storage.SessionStorage
	var langs storage.LanguageStorage
	if conf.Mongo.Enabled {
		mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%s",
			conf.Mongo.User, conf.Mongo.Password,
			conf.Mongo.Host, conf.Mongo.Port)
		mongoSessions, err := storage.NewMongoStorage(mongoURI, conf.Mongo.Database, log)
		if err != nil {
			log.With(
				slog.String("db", conf.Mongo.Database),
				slog.String("user", conf.Mongo.User),
				slog.String("host", conf.Mongo.Host),
			).Error("falling back to memory", sl.Err(err))
		} else {
			mongoLangs, err := storage.NewMongoLanguageStorage(mongoSessions.GetClient(), conf.Mongo.Database, log)
			if err != nil {
				log.Error("creating language storage", sl.Err(err))
				return
			}
			sessions = mongoSessions
			langs = mongoLangs
			log.Info("using MongoDB storage")
		}
	}
	if sessions == nil {
		memory, err := storage.NewMemoryStorage()
		if err != nil {
			log.Error("creating memory storage", sl.Err(err))
			return
		}
		sessions = memory
		langs = storage.NewMemoryLanguageStorage()
		log.Info("using in-memory storage")
	}

	guard := holder.NewSessionGuard(sessions, langs)

	tgBot, err := bot.NewTgBot(conf, log)
	if err != nil {
		log.Error("creating telegram", sl.Err(err))
		return
	}

	controller, err := survey.NewController(conf, log, provider, guard, tgBot)
	if err != nil {
		log.Error("creating controller", sl.Err(err))
		return
	}
	tgBot.SetSurvey(controller)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in goroutine
	go func() {
		if err := tgBot.Start(); err != nil {
			log.Error("bot stopped with error", sl.Err(err))
		}
	}()

	log.Info("bot started")

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	// Graceful shutdown
	tgBot.Stop()

	if err := guard.Close(); err != nil {
		log.Error("error closing storage", sl.Err(err))
	}

	log.Info("shutdown complete")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
