package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bowerhall/relay/internal/agent"
	"github.com/bowerhall/relay/internal/bot"
	"github.com/bowerhall/relay/internal/config"
	"github.com/bowerhall/relay/internal/conversation"
	"github.com/bowerhall/relay/internal/janitor"
	"github.com/bowerhall/relay/internal/llm"
	"github.com/bowerhall/relay/internal/logger"
	"github.com/bowerhall/relay/internal/storage"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	model, err := llm.New(llm.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
	})
	if err != nil {
		logger.Fatal("failed to create llm", "error", err)
	}

	store := conversation.NewStore(cfg.MaxHistory)
	relay := agent.New(model, store)

	// minio media archive (optional)
	var storageClient *storage.Client
	if cfg.Storage.Enabled {
		storageClient, err = storage.NewClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create storage client", "error", err)
		} else {
			initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := storageClient.Init(initCtx); err != nil {
				logger.Error("failed to init storage bucket", "error", err)
				storageClient = nil
			} else {
				logger.Info("media archive enabled", "endpoint", cfg.Storage.Endpoint)
			}
			cancel()
		}
	}

	sweeper := janitor.New(store)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start janitor", "error", err)
	}
	defer sweeper.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var enabledProviders []string

	if cfg.Bots.Telegram.Enabled {
		b, err := bot.NewTelegram(cfg.Bots.Telegram.Token, relay, storageClient)
		if err != nil {
			logger.Fatal("failed to create telegram bot", "error", err)
		}

		enabledProviders = append(enabledProviders, "telegram")
		go b.Start(ctx)
	}

	if cfg.Bots.Discord.Enabled {
		b, err := bot.NewDiscord(cfg.Bots.Discord.Token, relay, storageClient)
		if err != nil {
			logger.Fatal("failed to create discord bot", "error", err)
		}

		enabledProviders = append(enabledProviders, "discord")
		go b.Start(ctx)
	}

	logger.Info("relay started",
		"bots", enabledProviders,
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"max_history", cfg.MaxHistory,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
}
