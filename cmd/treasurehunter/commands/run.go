package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/treasurehunter/watcher/config"
	httpDelivery "github.com/treasurehunter/watcher/internal/delivery/http"
	"github.com/treasurehunter/watcher/internal/infrastructure/registry"
	"github.com/treasurehunter/watcher/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

func runCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run watch rounds until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				log.Printf("Failed to load configuration: %v", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cfg, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single round and exit")
	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, once bool) error {
	log.Printf("Starting Treasure Hunter v3.0.0")
	log.Printf("Catalog: %s", cfg.Catalog.BaseURL)
	log.Printf("Targets: %d, delay between targets: %s, delay between rounds: %s",
		len(cfg.Watch.Targets), cfg.Watch.TargetDelay, cfg.Watch.RoundInterval())

	catalogClient, err := newCatalogClient(cfg)
	if err != nil {
		return err
	}
	notifier, err := newTelegramClient(cfg)
	if err != nil {
		return err
	}
	matches := registry.NewMemoryRegistry()

	evaluator := usecase.NewMatchEvaluator(usecase.NewNameMatcher(usecase.NameMatchConfig{
		SimilarityThreshold:   cfg.Matching.SimilarityThreshold,
		TokenOverlapThreshold: cfg.Matching.TokenOverlapThreshold,
	}))
	log.Printf("Matching: similarity=%.2f, token overlap=%.2f, debug=%v",
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.TokenOverlapThreshold,
		cfg.Matching.EnableDebugLogging)

	rounds := usecase.NewRoundService(catalogClient, notifier, matches, evaluator, usecase.RoundServiceConfig{
		TargetDelay:        cfg.Watch.TargetDelay,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	schedulerConfig := usecase.SchedulerConfig{RoundInterval: cfg.Watch.RoundInterval()}
	if once {
		schedulerConfig.MaxRounds = 1
	}
	scheduler, err := usecase.NewScheduler(rounds, cfg.Watch.Targets, schedulerConfig)
	if err != nil {
		return err
	}

	if cfg.Server.Enabled {
		server := newStatusServer(cfg, httpDelivery.NewHandler(scheduler, matches))
		defer shutdownServer(server)
	}

	if err := scheduler.Run(ctx); err != nil {
		return err
	}

	status := scheduler.Status()
	log.Printf("Stopped after %d rounds: %d alerts sent, %d matches remembered",
		status.RoundsCompleted, status.TotalAlerts, matches.Size())
	return nil
}

func newStatusServer(cfg *config.Config, handler *httpDelivery.Handler) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           httpDelivery.SetupRouter(cfg, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Status server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Status server failed: %v", err)
		}
	}()
	return server
}

func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Status server shutdown: %v", err)
	}
}
