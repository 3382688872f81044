package catalog

// DemoCatalog returns the static boutique catalog used when the upstream
// product catalog service cannot be reached. Eco tags and carbon scores
// mirror the demo sustainability annotations of the live deployment.
func DemoCatalog() []Product {
	return []Product{
		{
			ID:          "9SIQT8TOJO",
			Name:        "Bamboo Glass Jar",
			Description: "This bamboo glass jar can hold 57 oz (1.7 l) and is perfect for any kitchen.",
			Price:       Money{CurrencyCode: "USD", Units: 5, Nanos: 490000000},
			Categories:  []string{"kitchen"},
			EcoTags:     []string{"sustainable", "bamboo"},
			CarbonScore: 25,
			WeightKg:    0.6,
		},
		{
			ID:          "0PUK6V6EV0",
			Name:        "Candle Holder",
			Description: "This handmade candle holder is a great gift, fitting any room decor.",
			Price:       Money{CurrencyCode: "USD", Units: 18, Nanos: 990000000},
			Categories:  []string{"decor", "home"},
			EcoTags:     []string{"handmade", "local"},
			CarbonScore: 35,
			WeightKg:    0.4,
		},
		{
			ID:          "6E92ZMYYFZ",
			Name:        "Mug",
			Description: "A simple mug with a mustard interior, dishwasher and microwave safe.",
			Price:       Money{CurrencyCode: "USD", Units: 8, Nanos: 990000000},
			Categories:  []string{"kitchen"},
			EcoTags:     []string{"recyclable"},
			CarbonScore: 45,
			WeightKg:    0.35,
		},
		{
			ID:          "LS4PSXUNUM",
			Name:        "Salt & Pepper Shakers",
			Description: "Add some flavor to your kitchen with these salt and pepper shakers.",
			Price:       Money{CurrencyCode: "USD", Units: 18, Nanos: 490000000},
			Categories:  []string{"kitchen"},
			EcoTags:     []string{},
			CarbonScore: 60,
			WeightKg:    0.3,
		},
		{
			ID:          "OLJCESPC7Z",
			Name:        "Sunglasses",
			Description: "Add a modern touch to your outfits with these sleek aviator sunglasses.",
			Price:       Money{CurrencyCode: "USD", Units: 19, Nanos: 990000000},
			Categories:  []string{"accessories"},
			EcoTags:     []string{},
			CarbonScore: 60,
			WeightKg:    0.1,
		},
		{
			ID:          "66VCHSJNUP",
			Name:        "Tank Top",
			Description: "Casual fabric tank top with a modern fit.",
			Price:       Money{CurrencyCode: "USD", Units: 18, Nanos: 990000000},
			Categories:  []string{"clothing", "tops"},
			EcoTags:     []string{},
			CarbonScore: 60,
			WeightKg:    0.2,
		},
		{
			ID:          "L9ECAV7KIM",
			Name:        "Loafers",
			Description: "A neat addition to your summer wardrobe.",
			Price:       Money{CurrencyCode: "USD", Units: 89, Nanos: 990000000},
			Categories:  []string{"footwear"},
			EcoTags:     []string{},
			CarbonScore: 75,
			WeightKg:    0.8,
		},
		{
			ID:          "2ZYFJ3GM2N",
			Name:        "Hairdryer",
			Description: "This lightweight hairdryer has 3 heat and speed settings.",
			Price:       Money{CurrencyCode: "USD", Units: 24, Nanos: 990000000},
			Categories:  []string{"hair", "beauty"},
			EcoTags:     []string{},
			CarbonScore: 85,
			WeightKg:    0.9,
		},
		{
			ID:          "1YMWWN1N4O",
			Name:        "Watch",
			Description: "This gold-tone stainless steel watch will work with most of your outfits.",
			Price:       Money{CurrencyCode: "USD", Units: 109, Nanos: 990000000},
			Categories:  []string{"accessories"},
			EcoTags:     []string{},
			CarbonScore: 90,
			WeightKg:    0.15,
		},
	}
}
