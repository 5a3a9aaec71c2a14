package model

import "strings"

// CategoryAll is the sentinel filter value that keeps every category.
const CategoryAll = "All Categories"

// The closed set of category labels a published listing may carry.
const (
	CategoryCulturalGoods    = "Cultural Goods & Handmade Items"
	CategoryTraditionalFoods = "Traditional Foods, Crafts & Firewood"
	CategoryRestaurants      = "Restaurants, Food Carts & Coffee"
	CategoryProfessional     = "Professional Services"
	CategoryStorefronts      = "Business Storefronts & Retail"
	CategoryTribalEnterprise = "Tribal Enterprises"
)

// FallbackCategory is assigned to records whose category cannot be mapped.
const FallbackCategory = CategoryCulturalGoods

var canonicalCategories = []string{
	CategoryCulturalGoods,
	CategoryTraditionalFoods,
	CategoryRestaurants,
	CategoryProfessional,
	CategoryStorefronts,
	CategoryTribalEnterprise,
}

// Categories returns the six canonical category labels, in display order.
func Categories() []string {
	out := make([]string, len(canonicalCategories))
	copy(out, canonicalCategories)
	return out
}

// IsCanonicalCategory reports whether s (after trimming) is one of the six labels.
func IsCanonicalCategory(s string) bool {
	s = strings.TrimSpace(s)
	for _, c := range canonicalCategories {
		if s == c {
			return true
		}
	}
	return false
}

// LegacyCategoryMap translates retired category labels to the current set.
// Configuration data: unknown labels fall back via CanonicalizeCategory.
var LegacyCategoryMap = map[string]string{
	"Arts, Crafts & Cultural Goods":        CategoryCulturalGoods,
	"Beadwork, Jewelry & Handmade Goods":   CategoryCulturalGoods,
	"Food, Beverages & Traditional Foods":  CategoryTraditionalFoods,
	"Construction, Trades & Home Services": CategoryStorefronts,
	"Professional & Business Services":     CategoryProfessional,
	"Tribal Enterprises & Tribal Programs": CategoryTribalEnterprise,
	"Community Sellers & Seasonal Vendors": CategoryCulturalGoods,
}

// CanonicalizeCategory maps a possibly-legacy label to a canonical one.
// The bool is false when the input was unknown and the fallback was used.
func CanonicalizeCategory(old string) (string, bool) {
	old = strings.TrimSpace(old)
	if mapped, ok := LegacyCategoryMap[old]; ok {
		return mapped, true
	}
	if IsCanonicalCategory(old) {
		return old, true
	}
	return FallbackCategory, false
}
