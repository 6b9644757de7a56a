// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kavara-store/internal/api"
	"kavara-store/internal/bot"
	"kavara-store/internal/config"
	"kavara-store/internal/server"
	"kavara-store/internal/storage"
	"kavara-store/pkg/logger"
)

func main() {
	l := logger.New()
	l.Info("Starting KAVARA storefront...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatal("Failed to load config", err)
	}

	store, closeStore, err := openStorage(cfg, l)
	if err != nil {
		l.Fatal("Failed to initialize storage", err)
	}
	defer closeStore()

	// The bot is optional: the REST API serves the mini app on its own.
	var telegramBot *bot.TelegramBot
	if cfg.Telegram.Token != "" {
		telegramBot, err = bot.NewTelegramBot(cfg.Telegram.Token, store, cfg.Telegram.MiniAppURL, l)
		if err != nil {
			l.Fatal("Failed to create Telegram bot", err)
		}
		if err := telegramBot.Start(context.Background()); err != nil {
			l.Fatal("Failed to start Telegram bot", err)
		}
		l.Info("Telegram bot started")
	} else {
		l.Info("Telegram token not configured, running API only")
	}

	httpServer := server.NewServer(cfg.Server.Port, api.NewHandler(store, l), l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		l.Error("Error during HTTP server shutdown", err)
	}
	if telegramBot != nil {
		if err := telegramBot.Stop(ctx); err != nil {
			l.Error("Error during bot shutdown", err)
		}
	}

	l.Info("Stopped")
}

func openStorage(cfg *config.Config, l *logger.Logger) (storage.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		l.Info("Using in-memory storage")
		return storage.NewMemory(), func() {}, nil
	}

	var (
		database *storage.Postgres
		err      error
	)
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		database, err = storage.NewPostgres(cfg.DB)
		if err == nil {
			break
		}
		l.Error("Failed to connect to database, retrying...", err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if database == nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Bootstrap(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	return database, database.Close, nil
}
