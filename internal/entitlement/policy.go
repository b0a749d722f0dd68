// Package entitlement holds the freemium limit rules. Every function is pure:
// callers pass in live counts and the current premium snapshot.
package entitlement

import "github.com/secretmenu/secretmenu-server/internal/domain"

// Limits are the free allowances of an account without premium.
type Limits struct {
	FreePlaceLimit int `json:"free_place_limit"`
	FreeOrderLimit int `json:"free_order_limit"`
	FreePhotoLimit int `json:"free_photo_limit"`
}

// DefaultLimits returns 3 places and 5 orders with photos not limited.
func DefaultLimits() Limits {
	return Limits{
		FreePlaceLimit: domain.DefaultFreePlaceLimit,
		FreeOrderLimit: domain.DefaultFreeOrderLimit,
		FreePhotoLimit: domain.DefaultFreePhotoLimit,
	}
}

// CanCreatePlace reports whether one more place may be added.
// The count is the total number of places, including popular-chain ones.
func CanCreatePlace(isPremium bool, currentTotalPlaceCount, freeLimit int) bool {
	return isPremium || currentTotalPlaceCount < freeLimit
}

// CanCreateOrder reports whether one more order may be added. The count is
// global across all places, not per place.
func CanCreateOrder(isPremium bool, currentOrderCount, totalOrderLimit int) bool {
	return isPremium || currentOrderCount < totalOrderLimit
}

// CanAttachPhoto reports whether one more order may carry a photo. A limit
// of 0 or less turns the photo limit off.
func CanAttachPhoto(isPremium bool, ordersWithPhotos, freePhotoLimit int) bool {
	return isPremium || freePhotoLimit <= 0 || ordersWithPhotos < freePhotoLimit
}

// TotalOrderLimit is the free allowance plus bonus slots.
func TotalOrderLimit(freeOrderLimit, unlockedOrderSlots int) int {
	return freeOrderLimit + unlockedOrderSlots
}

// CapabilitiesFor derives the feature flags for an account.
func CapabilitiesFor(isPremium bool) domain.Capabilities {
	return domain.Capabilities{
		UnlimitedPlaces: isPremium,
		UnlimitedOrders: isPremium,
		UnlimitedPhotos: isPremium,
		CustomThemes:    isPremium,
		CustomTagColors: isPremium,
		ExportOrders:    isPremium,
		ShowAds:         !isPremium,
	}
}
