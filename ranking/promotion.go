package ranking

import (
	"fmt"
)

// Promotion strategy names. Strategy choice is a single explicit
// configuration value per request, never inferred.
const (
	StrategySustainabilityFocused = "sustainability_focused"
	StrategyPriceCompetitive      = "price_competitive"
)

// PromotionPolicy selects which ranked products receive a discount.
type PromotionPolicy struct {
	Strategy        string
	DiscountPercent int
	ScoreThreshold  int     // sustainability score floor (sustainability_focused)
	PriceThreshold  float64 // price floor (price_competitive)
	TopN            int     // only the N best-ranked products qualify; 0 = no limit
}

// DefaultPolicy returns the documented policy for a strategy name. Unknown
// strategies get the sustainability-focused defaults.
func DefaultPolicy(strategy string) PromotionPolicy {
	switch strategy {
	case StrategyPriceCompetitive:
		return PromotionPolicy{
			Strategy:        StrategyPriceCompetitive,
			DiscountPercent: 10,
			PriceThreshold:  50,
		}
	default:
		return PromotionPolicy{
			Strategy:        StrategySustainabilityFocused,
			DiscountPercent: 15,
			ScoreThreshold:  80,
		}
	}
}

// PromotionSummary reports what a promotion pass did.
type PromotionSummary struct {
	TotalPromotions    int     `json:"total_promotions"`
	TotalDiscountValue float64 `json:"total_discount_value"`
	StrategyUsed       string  `json:"strategy_used"`
}

// ApplyPromotions attaches discounts to the ranked products selected by the
// policy. Prices in the batch are never mutated; the discount lives on the
// attached Promotion. The operation is idempotent: products that already
// carry a promotion are left untouched, so applying twice yields the same
// discounted set and percentage, never compounding.
func (e *Engine) ApplyPromotions(ranked []RankedProduct, policy PromotionPolicy) ([]RankedProduct, PromotionSummary) {
	summary := PromotionSummary{StrategyUsed: policy.Strategy}

	for i := range ranked {
		rp := &ranked[i]

		if rp.Promotion != nil {
			summary.TotalPromotions++
			summary.TotalDiscountValue += rp.Promotion.OriginalPrice.Float64() - rp.Promotion.DiscountedPrice.Float64()
			continue
		}

		if policy.TopN > 0 && rp.Position > policy.TopN {
			continue
		}

		eligible, reason := policy.evaluate(rp)
		if !eligible {
			continue
		}

		original := rp.Product.Price
		discounted := original.Discounted(policy.DiscountPercent)
		rp.Promotion = &Promotion{
			ProductID:       rp.Product.ID,
			DiscountPercent: policy.DiscountPercent,
			Strategy:        policy.Strategy,
			Reason:          reason,
			OriginalPrice:   original,
			DiscountedPrice: discounted,
		}

		summary.TotalPromotions++
		summary.TotalDiscountValue += original.Float64() - discounted.Float64()

		e.logger.Debug("ranking.promotion.applied",
			"product_id", rp.Product.ID, "strategy", policy.Strategy,
			"discount_percent", policy.DiscountPercent)
	}

	return ranked, summary
}

func (p PromotionPolicy) evaluate(rp *RankedProduct) (bool, string) {
	switch p.Strategy {
	case StrategyPriceCompetitive:
		if rp.Product.Price.Float64() > p.PriceThreshold {
			return true, fmt.Sprintf("%d%% off - price competitive discount", p.DiscountPercent)
		}
	default: // sustainability_focused
		if rp.Assessment.Score >= p.ScoreThreshold {
			return true, fmt.Sprintf("%d%% off - sustainable product discount", p.DiscountPercent)
		}
	}
	return false, ""
}

// DefaultActivePromotions mirrors the boutique's simulated active promotion
// table (product ID to discount percent), used for the composite promotion
// term when no per-request promotions are supplied.
func DefaultActivePromotions() map[string]int {
	return map[string]int{
		"0PUK6V6EV0": 20, // Candle Holder - artisanal feature
		"9SIQT8TOJO": 15, // Bamboo Glass Jar - eco-friendly week
		"6E92ZMYYFZ": 10, // Mug - kitchen essentials
		"L9ECAV7KIM": 25, // Loafers - summer sale
		"2ZYFJ3GM2N": 12, // Hairdryer - beauty & care
	}
}
