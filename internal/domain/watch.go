package domain

import (
	"fmt"
	"strings"
	"time"
)

// WatchTarget is a named product and the price we are hunting it for
type WatchTarget struct {
	Name        string `json:"name" mapstructure:"name"`
	TargetPrice int    `json:"targetPrice" mapstructure:"price"`
}

// Validate reports whether the target can be watched
func (t WatchTarget) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTarget)
	}
	if t.TargetPrice <= 0 {
		return fmt.Errorf("%w: %q has non-positive price %d", ErrInvalidTarget, t.Name, t.TargetPrice)
	}
	return nil
}

// Listing is a single search-result entry extracted from a catalog page.
// Price is nil when the card carried no parseable price.
type Listing struct {
	Title    string `json:"title"`
	Price    *int   `json:"price,omitempty"`
	URL      string `json:"url,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// HasPrice reports whether the listing carries a price
func (l Listing) HasPrice() bool {
	return l.Price != nil
}

// MatchIdentity is the deduplication key of a discovered match
type MatchIdentity struct {
	TargetName   string `json:"targetName"`
	ListingTitle string `json:"listingTitle"`
	ListingPrice int    `json:"listingPrice"`
}

// SeenMatch is an alerted identity with the time it was first recorded
type SeenMatch struct {
	MatchIdentity
	FirstSeen time.Time `json:"firstSeen"`
}

// String renders the identity the way it appears in logs
func (id MatchIdentity) String() string {
	return fmt.Sprintf("%s|%s|%d", id.TargetName, id.ListingTitle, id.ListingPrice)
}

// IdentityOf builds the match identity for a priced listing of a target
func IdentityOf(target WatchTarget, listing Listing) MatchIdentity {
	id := MatchIdentity{TargetName: target.Name, ListingTitle: listing.Title}
	if listing.Price != nil {
		id.ListingPrice = *listing.Price
	}
	return id
}

// Skip reasons reported by the match evaluator
const (
	SkipNoPrice     = "no price"
	SkipNameTooFar  = "name not close enough"
	SkipPriceTooFar = "price too far"
)

// Verdict is the outcome of evaluating a listing against a target
type Verdict struct {
	Match     bool     `json:"match"`
	Reasons   []string `json:"reasons,omitempty"` // failed gates, empty on a match
	Tolerance int      `json:"tolerance"`
	NameOK    bool     `json:"nameOk"`
	PriceOK   bool     `json:"priceOk"`
}

// Reason joins the skip reasons into a single line
func (v Verdict) Reason() string {
	return strings.Join(v.Reasons, ", ")
}

// RoundReport summarises a single pass over all targets
type RoundReport struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Targets      int       `json:"targets"`
	Listings     int       `json:"listings"`
	Matches      int       `json:"matches"`
	Alerts       int       `json:"alerts"`
	Duplicates   int       `json:"duplicates"`
	Skipped      int       `json:"skipped"`
	FetchErrors  int       `json:"fetchErrors"`
	NotifyErrors int       `json:"notifyErrors"`
	Cancelled    bool      `json:"cancelled"`
}
