package domain

// Platform identifies the storefront a deal was found on.
type Platform string

const (
	PlatformSteam Platform = "steam"
	PlatformEpic  Platform = "epic"
	PlatformGOG   Platform = "gog"
)

// Deal is the normalized representation of one discounted or free game
// offer from one storefront. Deals are rebuilt fresh every run; nothing
// about them is cached between runs.
type Deal struct {
	SourceID        string   `json:"source_id"` // adapter-scoped id ("epic_...", "gog_...", raw numeric for Steam)
	Title           string   `json:"title"`
	MatchKey        string   `json:"match_key"` // derived from Title, see service.MatchKey
	DiscountPercent int      `json:"discount_percent"` // 0-100
	FinalPrice      float64  `json:"final_price"`
	Currency        string   `json:"currency"`
	Platform        Platform `json:"platform"`
	ReviewScore     int      `json:"review_score,omitempty"` // percent positive, 0 when the source has no review data
	ReviewCount     int      `json:"review_count,omitempty"` // sample size behind ReviewScore, 0 when unknown
	URL             string   `json:"url"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// Giveaway reports whether the deal is a full giveaway. A zero price
// bypasses price comparisons only, never discount or review checks.
func (d Deal) Giveaway() bool {
	return d.FinalPrice == 0
}
