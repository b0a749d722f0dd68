package backup

import "time"

// FormatVersion is the archive format version. Increment on breaking changes.
const FormatVersion = "1.0"

// Archive layout.
const (
	manifestPath = "manifest.json"
	placesPath   = "entities/places.jsonl"
	ordersPath   = "entities/orders.jsonl"
	tagsPath     = "entities/tags.jsonl"
	photosDir    = "photos/"
)

// Manifest describes archive contents and metadata.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`

	Counts EntityCounts `json:"counts"`

	IncludesPhotos bool `json:"includes_photos"`
}

// EntityCounts tracks entity counts for validation and progress reporting.
type EntityCounts struct {
	Places int `json:"places"`
	Orders int `json:"orders"`
	Tags   int `json:"tags"`
	Photos int `json:"photos,omitempty"`
}
