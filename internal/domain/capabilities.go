package domain

// Capabilities lists what the current account may do. Every flag is derived
// from the premium entitlement alone.
type Capabilities struct {
	UnlimitedPlaces bool `json:"unlimited_places"`
	UnlimitedOrders bool `json:"unlimited_orders"`
	UnlimitedPhotos bool `json:"unlimited_photos"`
	CustomThemes    bool `json:"custom_themes"`
	CustomTagColors bool `json:"custom_tag_colors"`
	ExportOrders    bool `json:"export_orders"`
	ShowAds         bool `json:"show_ads"`
}
