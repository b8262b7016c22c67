package epicfree

// freeGamesResponse is the free-games promotions payload. The interesting
// part is buried a few levels down in the catalog search wrapper.
type freeGamesResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []element `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type element struct {
	Title         string      `json:"title"`
	ID            string      `json:"id"`
	ProductSlug   string      `json:"productSlug"`
	URLSlug       string      `json:"urlSlug"`
	KeyImages     []keyImage  `json:"keyImages"`
	CatalogNs     catalogNs   `json:"catalogNs"`
	OfferMappings []mapping   `json:"offerMappings"`
	Price         price       `json:"price"`
	Promotions    *promotions `json:"promotions"`
}

type keyImage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type catalogNs struct {
	Mappings []mapping `json:"mappings"`
}

type mapping struct {
	PageSlug string `json:"pageSlug"`
}

type price struct {
	TotalPrice struct {
		DiscountPrice int    `json:"discountPrice"`
		OriginalPrice int    `json:"originalPrice"`
		CurrencyCode  string `json:"currencyCode"`
	} `json:"totalPrice"`
}

type promotions struct {
	PromotionalOffers []offerGroup `json:"promotionalOffers"`
}

type offerGroup struct {
	PromotionalOffers []offer `json:"promotionalOffers"`
}

type offer struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	DiscountSetting struct {
		DiscountType       string `json:"discountType"`
		DiscountPercentage int    `json:"discountPercentage"`
	} `json:"discountSetting"`
}
