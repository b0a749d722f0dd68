package backup

import "time"

// ExportOptions configures archive creation.
type ExportOptions struct {
	IncludePhotos bool
}

// RestoreMode determines how to handle existing data.
type RestoreMode string

const (
	// RestoreModeFull wipes existing entities and restores from the archive.
	RestoreModeFull RestoreMode = "full"

	// RestoreModeMerge adds archive entities, skipping IDs that already exist.
	RestoreModeMerge RestoreMode = "merge"
)

// Valid returns true if the restore mode is recognized.
func (m RestoreMode) Valid() bool {
	switch m {
	case RestoreModeFull, RestoreModeMerge:
		return true
	default:
		return false
	}
}

// RestoreOptions configures restoration.
type RestoreOptions struct {
	Mode   RestoreMode
	DryRun bool // Validate without writing
}

// RestoreResult contains the outcome of a restore operation.
type RestoreResult struct {
	Manifest *Manifest      `json:"manifest"`
	Imported EntityCounts   `json:"imported"`
	Skipped  EntityCounts   `json:"skipped"`
	Errors   []RestoreError `json:"errors,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// RestoreError describes a non-fatal error during restore.
type RestoreError struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id,omitempty"`
	Error      string `json:"error"`
}
