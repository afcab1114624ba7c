package domain

import "errors"

var (
	// ErrFetchFailed is returned when a catalog search request fails (network, timeout, non-2xx)
	ErrFetchFailed = errors.New("catalog search failed")

	// ErrNotifyFailed is returned when a notification could not be delivered
	ErrNotifyFailed = errors.New("notification delivery failed")

	// ErrUnusableListing is returned when a scraped card lacks a title, price or link
	ErrUnusableListing = errors.New("unusable listing")

	// ErrInvalidTarget is returned when a watch target has no name or a non-positive price
	ErrInvalidTarget = errors.New("invalid watch target")

	// ErrMissingCredentials is returned when notifier credentials are not configured
	ErrMissingCredentials = errors.New("missing notifier credentials")
)
