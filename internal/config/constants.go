package config

import "time"

const (
	// Timeout for a single completion-service call. Acts as a hard upper
	// bound per pipeline stage and per chat turn.
	CompletionTimeout = 90 * time.Second

	// Timeout for fetching a product page during tool-link enrichment.
	LinkFetchTimeout = 10 * time.Second

	// Max product links resolved per diagnosis.
	MaxToolLinks = 3

	// Bounded retry count for the session compare-and-swap update.
	SessionWriteRetries = 3

	// History pagination
	ResultsPerPageDefault = 20
	ResultsPerPageMax     = 100

	// HTTP server
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second

	// Placeholder user message seeded into a session when the diagnosis
	// request carried no text description.
	ImageOnlyPlaceholder = "(image-based request)"
)
