package domain

import "time"

// Tag is a user-defined label. Orders refer to tags by name.
// Color is a "#RRGGBB" string and only set for premium accounts.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
