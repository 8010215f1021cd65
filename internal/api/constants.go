package api

// API limits and constants.
const (
	// MaxRangeSpan bounds how many palettes one range request returns.
	MaxRangeSpan = 500

	// MaxWebhookBody is the largest billing webhook payload accepted (64 KB).
	MaxWebhookBody = 64 << 10
)

// Cache-Control header values.
const (
	CacheOneWeek = "public, max-age=604800"
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-store"
)
