package api

// Cache-Control header values.
const (
	// Photo file names are content-unique, so a private day-long cache is safe.
	CachePrivateOneDay = "private, max-age=86400"
	CacheNoStore       = "no-store"
)
