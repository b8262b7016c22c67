package epicsales

// aggregatorDeal is one row from the deals aggregator. Prices and the
// savings percentage arrive as decimal strings.
type aggregatorDeal struct {
	Title       string `json:"title"`
	DealID      string `json:"dealID"`
	StoreID     string `json:"storeID"`
	SalePrice   string `json:"salePrice"`
	NormalPrice string `json:"normalPrice"`
	Savings     string `json:"savings"`
	SteamAppID  string `json:"steamAppID"`
	Thumb       string `json:"thumb"`
}
