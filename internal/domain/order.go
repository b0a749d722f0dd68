package domain

import (
	"slices"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/normalize"
)

// Order is a saved custom order belonging to exactly one place.
//
// Tags holds tag names, not tag IDs. Renaming or deleting a Tag does not
// rewrite orders that reference the old name.
type Order struct {
	ID      string   `json:"id"`
	PlaceID string   `json:"place_id"`
	Title   string   `json:"title"`
	Details string   `json:"details"`
	Tags    []string `json:"tags"`
	// PhotoPath is the bare file name inside the photos directory, or "".
	PhotoPath     string    `json:"photo_path,omitempty"`
	PhotoBlurHash string    `json:"photo_blur_hash,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasPhoto reports whether a photo is attached.
func (o *Order) HasPhoto() bool {
	return o.PhotoPath != ""
}

// HasAnyTag reports whether the order carries at least one of the given tag
// names. Matching is case-insensitive on trimmed names.
func (o *Order) HasAnyTag(names []string) bool {
	return slices.ContainsFunc(o.Tags, func(t string) bool {
		return slices.ContainsFunc(names, func(n string) bool {
			return normalize.SameName(t, n)
		})
	})
}
