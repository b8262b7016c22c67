package steam

// featuredCategoriesResponse is the storefront's curated listings payload.
// Only the buckets we union are modeled.
type featuredCategoriesResponse struct {
	Specials    category `json:"specials"`
	TopSellers  category `json:"top_sellers"`
	NewReleases category `json:"new_releases"`
	ComingSoon  category `json:"coming_soon"`
}

type category struct {
	Items []item `json:"items"`
}

type item struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Discounted        bool   `json:"discounted"`
	DiscountPercent   int    `json:"discount_percent"`
	FinalPrice        int64  `json:"final_price"` // minor currency units (cents)
	OriginalPrice     int64  `json:"original_price"`
	Currency          string `json:"currency"`
	HeaderImage       string `json:"header_image"`
	LargeCapsuleImage string `json:"large_capsule_image"`
}
