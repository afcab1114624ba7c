package commands

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/treasurehunter/watcher/config"
	"github.com/treasurehunter/watcher/internal/domain"
	"github.com/treasurehunter/watcher/internal/usecase"
)

const diagListingsPerTarget = 3

const diagTestMessage = "Treasure Hunter diagnostic: bot is connected and can post to this chat."

func diagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag",
		Short: "Search every target once and send a Telegram test message",
		Long: "Checks credentials, runs one catalog search per target printing the first " +
			"listings found, then sends a test message. Nothing is recorded as alerted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithoutCredentials()
			if err != nil {
				return err
			}
			return runDiag(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func runDiag(ctx context.Context, out io.Writer, cfg *config.Config) error {
	hasCredentials := cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != ""
	fmt.Fprintf(out, "Telegram bot token set: %v\n", cfg.Telegram.BotToken != "")
	fmt.Fprintf(out, "Telegram chat id set: %v\n", cfg.Telegram.ChatID != "")

	catalogClient, err := newCatalogClient(cfg)
	if err != nil {
		return err
	}

	for _, target := range cfg.Watch.Targets {
		fmt.Fprintf(out, "\n%s (target %s)\n", target.Name, usecase.FormatPrice(target.TargetPrice))
		fmt.Fprintf(out, "  %s\n", catalogClient.SearchURL(target.Name))

		listings, err := catalogClient.Search(ctx, target.Name)
		if err != nil {
			fmt.Fprintf(out, "  error: %v\n", err)
			continue
		}
		printListings(out, listings, diagListingsPerTarget)
	}

	if !hasCredentials {
		fmt.Fprintln(out, "\nSkipping Telegram test: credentials missing")
		return nil
	}

	notifier, err := newTelegramClient(cfg)
	if err != nil {
		return err
	}
	if err := notifier.SendText(ctx, diagTestMessage); err != nil {
		log.Printf("[DIAG] Telegram test failed: %v", err)
		return err
	}
	fmt.Fprintln(out, "\nTelegram test message sent")
	return nil
}

func printListings(out io.Writer, listings []domain.Listing, limit int) {
	fmt.Fprintf(out, "  %d listings found\n", len(listings))
	for i, l := range listings {
		if i >= limit {
			break
		}
		price := "N/A"
		if l.HasPrice() {
			price = usecase.FormatPrice(*l.Price)
		}
		image := l.ImageURL
		if image == "" {
			image = "N/A"
		}
		fmt.Fprintf(out, "  %d. %s\n     price: %s\n     link:  %s\n     image: %s\n", i+1, l.Title, price, l.URL, image)
	}
}
