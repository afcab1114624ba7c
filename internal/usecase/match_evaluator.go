package usecase

import "github.com/treasurehunter/watcher/internal/domain"

// MatchEvaluator classifies a (target, listing) pair as a match or a skip
type MatchEvaluator struct {
	names     *NameMatcher
	tolerance func(targetPrice int) int
}

// NewMatchEvaluator creates an evaluator using the given name matcher and the banded Tolerance policy
func NewMatchEvaluator(names *NameMatcher) *MatchEvaluator {
	if names == nil {
		names = NewNameMatcher(NameMatchConfig{})
	}
	return &MatchEvaluator{
		names:     names,
		tolerance: Tolerance,
	}
}

// Evaluate decides whether listing is a match for target.
// A skip lists every failed gate; it has no side effects.
func (e *MatchEvaluator) Evaluate(target domain.WatchTarget, listing domain.Listing) domain.Verdict {
	tol := e.tolerance(target.TargetPrice)

	if !listing.HasPrice() {
		return domain.Verdict{Tolerance: tol, Reasons: []string{domain.SkipNoPrice}}
	}

	verdict := domain.Verdict{
		Tolerance: tol,
		NameOK:    e.names.IsNameMatch(listing.Title, target.Name),
		PriceOK:   withinTolerance(*listing.Price, target.TargetPrice, tol),
	}

	if !verdict.NameOK {
		verdict.Reasons = append(verdict.Reasons, domain.SkipNameTooFar)
	}
	if !verdict.PriceOK {
		verdict.Reasons = append(verdict.Reasons, domain.SkipPriceTooFar)
	}
	verdict.Match = verdict.NameOK && verdict.PriceOK

	return verdict
}
