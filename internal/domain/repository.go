package domain

import "context"

// CatalogSearcher defines the interface for searching the e-commerce catalog
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]Listing, error)
}

// Notifier defines the interface for delivering match alerts.
// imageURL is empty when the alert should be sent as plain text.
type Notifier interface {
	Notify(ctx context.Context, caption, imageURL string) error
}

// MatchRegistry defines the process-lifetime set of alerted match identities
type MatchRegistry interface {
	// ShouldAlert inserts identity and returns true if it was not present yet.
	// The check and the insert are a single atomic step.
	ShouldAlert(identity MatchIdentity) bool
	Size() int
}
