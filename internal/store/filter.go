package store

// OrderFilter narrows an order listing. The zero value matches every order.
type OrderFilter struct {
	PlaceID string
	// AnyTags keeps orders carrying at least one of these tag names,
	// compared case-insensitively. Empty means no tag filtering.
	AnyTags []string
}
