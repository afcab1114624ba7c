package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/treasurehunter/watcher/internal/domain"
)

// RoundServiceConfig holds configuration for the round service
type RoundServiceConfig struct {
	TargetDelay        time.Duration // pause between two target searches
	EnableDebugLogging bool
}

// RoundService runs one pass over all watch targets: search, evaluate, deduplicate, notify.
// A failing target never affects the others.
type RoundService struct {
	catalog            domain.CatalogSearcher
	notifier           domain.Notifier
	registry           domain.MatchRegistry
	evaluator          *MatchEvaluator
	targetDelay        time.Duration
	enableDebugLogging bool
	now                func() time.Time
}

// NewRoundService creates a round service with its collaborators
func NewRoundService(
	catalog domain.CatalogSearcher,
	notifier domain.Notifier,
	registry domain.MatchRegistry,
	evaluator *MatchEvaluator,
	config RoundServiceConfig,
) *RoundService {
	if evaluator == nil {
		evaluator = NewMatchEvaluator(nil)
	}

	delay := config.TargetDelay
	if delay < 0 {
		delay = 0
	}

	return &RoundService{
		catalog:            catalog,
		notifier:           notifier,
		registry:           registry,
		evaluator:          evaluator,
		targetDelay:        delay,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// RunRound processes targets sequentially in their configured order.
// Cancellation is honoured between targets and before any notification is sent.
func (s *RoundService) RunRound(ctx context.Context, targets []domain.WatchTarget) domain.RoundReport {
	report := domain.RoundReport{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
	}

	for i, target := range targets {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		report.Targets++
		s.processTarget(ctx, target, &report)
		if report.Cancelled {
			break
		}

		if i < len(targets)-1 && !sleepContext(ctx, s.targetDelay) {
			report.Cancelled = true
			break
		}
	}

	report.FinishedAt = s.now()
	log.Printf("[ROUND] %s done: targets=%d listings=%d matches=%d alerts=%d duplicates=%d fetchErrors=%d notifyErrors=%d",
		report.ID, report.Targets, report.Listings, report.Matches, report.Alerts,
		report.Duplicates, report.FetchErrors, report.NotifyErrors)

	return report
}

// processTarget searches one target and handles every returned listing
func (s *RoundService) processTarget(ctx context.Context, target domain.WatchTarget, report *domain.RoundReport) {
	log.Printf("[ROUND] Searching for: %s (target %s)", target.Name, FormatPrice(target.TargetPrice))

	listings, err := s.catalog.Search(ctx, target.Name)
	if err != nil {
		if ctx.Err() != nil {
			report.Cancelled = true
			log.Printf("[ROUND] Search for %q interrupted by shutdown", target.Name)
			return
		}
		report.FetchErrors++
		log.Printf("[ROUND] Search error for %q: %v", target.Name, err)
		return
	}

	report.Listings += len(listings)
	if s.enableDebugLogging {
		log.Printf("[ROUND] Found %d listings for %q; price tolerance ±%s",
			len(listings), target.Name, FormatPrice(Tolerance(target.TargetPrice)))
	}

	for _, listing := range listings {
		if listing.Title == "" {
			continue
		}

		verdict := s.evaluator.Evaluate(target, listing)
		if !verdict.Match {
			report.Skipped++
			log.Printf("[ROUND] Skipped %q (%s)", truncate(listing.Title, 60), verdict.Reason())
			continue
		}

		report.Matches++
		// Stop before any outbound I/O once cancelled; nothing has been recorded yet.
		if ctx.Err() != nil {
			report.Cancelled = true
			return
		}
		s.alert(ctx, target, listing, report)
	}
}

// alert records the match identity and dispatches the notification.
// The identity is recorded before dispatch, so a failed delivery is not retried.
func (s *RoundService) alert(ctx context.Context, target domain.WatchTarget, listing domain.Listing, report *domain.RoundReport) {
	identity := domain.IdentityOf(target, listing)
	if !s.registry.ShouldAlert(identity) {
		report.Duplicates++
		return
	}

	log.Printf("[ROUND] Match: %q at %s", listing.Title, FormatPrice(*listing.Price))

	if err := s.notifier.Notify(ctx, FormatCaption(target, listing), listing.ImageURL); err != nil {
		report.NotifyErrors++
		log.Printf("[ROUND] Failed to notify %s: %v", identity, err)
		return
	}

	report.Alerts++
	log.Printf("[ROUND] Alerted: %s -> %s (%s)", target.Name, listing.Title, FormatPrice(*listing.Price))
}

// sleepContext waits for d or until ctx is done; it reports whether the wait completed
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
