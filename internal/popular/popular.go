// Package popular is a static catalog of chain restaurants offered as
// suggestions when the user adds a place.
package popular

import (
	"slices"
	"strings"

	"github.com/secretmenu/secretmenu-server/internal/normalize"
)

// DefaultSuggestionCount is how many places an empty query returns.
const DefaultSuggestionCount = 10

// Place is a well-known chain.
type Place struct {
	Name string `json:"name"`
	// BrandKey names the logo asset the client bundles, if any.
	BrandKey string   `json:"brand_key,omitempty"`
	Keywords []string `json:"keywords"`
}

// HasBrandImage reports whether the client has a logo for this place.
func (p Place) HasBrandImage() bool { return p.BrandKey != "" }

// Catalog lists the suggested chains in display order.
var Catalog = []Place{
	{Name: "Starbucks", BrandKey: "starbucks", Keywords: []string{"coffee", "latte", "frappuccino", "espresso", "cafe", "drink", "beverage"}},
	{Name: "Chipotle", BrandKey: "chipotle", Keywords: []string{"burrito", "bowl", "mexican", "guac", "chipotle"}},
	{Name: "Dunkin'", BrandKey: "dunkin", Keywords: []string{"coffee", "donut", "doughnut", "latte", "espresso", "drink", "beverage"}},
	{Name: "McDonald's", BrandKey: "mcdonalds", Keywords: []string{"burger", "fries", "fast food", "mcdonalds", "big mac"}},
	{Name: "Subway", BrandKey: "subway", Keywords: []string{"sandwich", "sub", "healthy", "fresh"}},
	{Name: "Taco Bell", BrandKey: "tacobell", Keywords: []string{"taco", "burrito", "mexican", "fast food"}},
	{Name: "Tim Hortons", BrandKey: "timhortons", Keywords: []string{"coffee", "donut", "latte", "espresso", "canada"}},
	{Name: "Chick-fil-A", BrandKey: "chickfila", Keywords: []string{"chicken", "sandwich", "nuggets", "fast food"}},
	{Name: "Burger King", BrandKey: "burgerking", Keywords: []string{"burger", "fries", "fast food", "whopper"}},
	{Name: "Wendy's", BrandKey: "wendys", Keywords: []string{"burger", "fries", "fast food"}},
	{Name: "Panera", BrandKey: "panera", Keywords: []string{"bakery", "cafe", "sandwich", "soup", "bread"}},
}

// Search returns catalog entries whose name or any keyword contains query,
// case-insensitively. A blank query returns the first
// DefaultSuggestionCount entries.
func Search(query string) []Place {
	q := normalize.NameKey(query)
	if q == "" {
		return slices.Clone(Catalog[:min(DefaultSuggestionCount, len(Catalog))])
	}

	var out []Place
	for _, p := range Catalog {
		if strings.Contains(normalize.NameKey(p.Name), q) ||
			slices.ContainsFunc(p.Keywords, func(k string) bool { return strings.Contains(k, q) }) {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a catalog entry by exact name, ignoring case.
func Lookup(name string) (Place, bool) {
	for _, p := range Catalog {
		if normalize.SameName(p.Name, name) {
			return p, true
		}
	}
	return Place{}, false
}
