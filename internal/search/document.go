// Package search keeps a Bleve full-text index of places and orders so the
// client can find an order by words in its title, details, tags or place.
package search

import (
	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/normalize"
)

// DocType discriminates documents in the shared index.
type DocType string

// Document types.
const (
	DocTypePlace DocType = "place"
	DocTypeOrder DocType = "order"
)

// SearchDocument is the unit stored in the index. Orders carry their place
// name so a search for "starbucks" also finds every Starbucks order.
type SearchDocument struct {
	ID      string  `json:"id"`
	Type    DocType `json:"type"`
	Name    string  `json:"name"` // place name or order title
	Details string  `json:"details,omitempty"`

	PlaceID   string   `json:"place_id,omitempty"`
	PlaceName string   `json:"place_name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	HasPhoto  bool     `json:"has_photo,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
}

// PlaceDocument builds the document for a place.
func PlaceDocument(p *domain.Place) *SearchDocument {
	return &SearchDocument{
		ID:        p.ID,
		Type:      DocTypePlace,
		Name:      p.Name,
		PlaceID:   p.ID,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// OrderDocument builds the document for an order. placeName may be empty when
// the place could not be loaded; the order is still searchable by its own text.
func OrderDocument(o *domain.Order, placeName string) *SearchDocument {
	return &SearchDocument{
		ID:        o.ID,
		Type:      DocTypeOrder,
		Name:      o.Title,
		Details:   o.Details,
		PlaceID:   o.PlaceID,
		PlaceName: placeName,
		Tags:      o.Tags,
		HasPhoto:  o.HasPhoto(),
		CreatedAt: o.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to the lowercase field names of the mapping.
// Tag names are case-folded so filters match regardless of how they were typed.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}

	if d.Details != "" {
		m["details"] = d.Details
	}
	if d.PlaceID != "" {
		m["place_id"] = d.PlaceID
	}
	if d.PlaceName != "" {
		m["place_name"] = d.PlaceName
	}
	if len(d.Tags) > 0 {
		keys := make([]string, len(d.Tags))
		for i, t := range d.Tags {
			keys[i] = normalize.NameKey(t)
		}
		m["tags"] = keys
		m["tag_text"] = d.Tags
	}
	if d.HasPhoto {
		m["has_photo"] = true
	}

	return m
}
