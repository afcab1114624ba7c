package commands

import (
	"fmt"
	"log"

	"github.com/treasurehunter/watcher/config"
	"github.com/treasurehunter/watcher/internal/infrastructure/catalog"
	"github.com/treasurehunter/watcher/internal/infrastructure/telegram"
)

func newCatalogClient(cfg *config.Config) (*catalog.Client, error) {
	client, err := catalog.NewClient(catalog.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		SearchPath:        cfg.Catalog.SearchPath,
		UserAgent:         cfg.Catalog.UserAgent,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		MaxResults:        cfg.Catalog.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" && cfg.Matching.EnableDebugLogging {
		client.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}
	return client, nil
}

func newTelegramClient(cfg *config.Config) (*telegram.Client, error) {
	client, err := telegram.NewClient(telegram.ClientConfig{
		APIBaseURL: cfg.Telegram.APIBaseURL,
		BotToken:   cfg.Telegram.BotToken,
		ChatID:     cfg.Telegram.ChatID,
		ParseMode:  cfg.Telegram.ParseMode,
		Timeout:    cfg.Telegram.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram client: %w", err)
	}
	return client, nil
}
