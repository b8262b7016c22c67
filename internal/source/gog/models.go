package gog

// catalogResponse is the discounted-catalog payload.
type catalogResponse struct {
	Products []product `json:"products"`
}

type product struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Price           *price `json:"price"`
	ReviewsRating   int    `json:"reviewsRating"` // 0-50 scale
	ReviewsCount    int    `json:"reviewsCount"`
	StoreLink       string `json:"storeLink"`
	CoverHorizontal string `json:"coverHorizontal"`
}

type price struct {
	Final      string `json:"final"`    // display string, e.g. "$3.99"
	Discount   string `json:"discount"` // signed string percentage, e.g. "-85%"
	FinalMoney money  `json:"finalMoney"`
}

type money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
