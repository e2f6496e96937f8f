package confirmation

import "errors"

var (
	// ErrMissingIntentID means the redirect arrived without an intent
	// reference; the caller must route back to plan selection.
	ErrMissingIntentID = errors.New("confirmation: intent ID is missing")
)
