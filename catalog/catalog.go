// Package catalog defines the product data model and the read-only catalog
// fetch collaborator. Products are immutable once fetched; the rest of the
// system only scores, ranks and discounts them.
package catalog

import (
	"math"
)

// Money represents an amount of a currency as integer units plus fractional
// nano units (1 unit = 1e9 nanos), the shape used by the upstream catalog.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// Float64 converts the amount to a float for scoring purposes.
func (m Money) Float64() float64 {
	return float64(m.Units) + float64(m.Nanos)/1e9
}

// MoneyFromFloat64 builds a Money from a float amount in the given currency.
func MoneyFromFloat64(currency string, amount float64) Money {
	units := math.Floor(amount)
	nanos := int32(math.Round((amount - units) * 1e9))
	if nanos >= 1e9 {
		units++
		nanos = 0
	}
	return Money{CurrencyCode: currency, Units: int64(units), Nanos: nanos}
}

// Discounted returns the price reduced by percent (0-100). Currency is preserved.
func (m Money) Discounted(percent int) Money {
	if percent <= 0 {
		return m
	}
	if percent > 100 {
		percent = 100
	}
	return MoneyFromFloat64(m.CurrencyCode, m.Float64()*(1-float64(percent)/100))
}

// Product is a single catalog entry enriched with sustainability metadata.
// WeightKg of 0 means unknown.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Picture     string   `json:"picture,omitempty"`
	Price       Money    `json:"price_usd"`
	Categories  []string `json:"categories"`
	EcoTags     []string `json:"eco_tags"`
	CarbonScore int      `json:"carbon_score"`
	WeightKg    float64  `json:"weight_kg,omitempty"`
}

// HasEcoTag reports whether the product carries the given eco tag.
func (p Product) HasEcoTag(tag string) bool {
	for _, t := range p.EcoTags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasCategory reports whether the product belongs to the given category.
func (p Product) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// neutralCarbonScore is assumed for products the upstream catalog does not
// annotate. Mid-range so missing data degrades quality, not availability.
const neutralCarbonScore = 60

// EnrichSustainabilityData fills in neutral defaults for products missing eco
// metadata and returns the same slice for chaining.
func EnrichSustainabilityData(products []Product) []Product {
	for i := range products {
		if products[i].EcoTags == nil {
			products[i].EcoTags = []string{}
		}
		if products[i].CarbonScore == 0 {
			products[i].CarbonScore = neutralCarbonScore
		}
	}
	return products
}
