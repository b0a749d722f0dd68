package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// photoSweepInterval is how often orphaned uploads are cleaned up.
	photoSweepInterval = time.Hour

	// photoSweepGrace is how long an unattached upload is kept.
	photoSweepGrace = 24 * time.Hour
)

// Version is the server version reported by /health and the archive
// manifest. Set at build time with -ldflags "-X ...providers.Version=...".
var Version = "dev"
