// Package ranking combines sustainability scores, active promotions, stated
// user preferences and popularity into a composite product ranking, and
// applies promotion strategies to the ranked result. Ranking the same inputs
// always yields the same order, so retries of a ranking request are safe.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/sustainability"
)

// Factor names used in weights, preferences and breakdowns.
const (
	FactorSustainability = "sustainability"
	FactorPromotion      = "promotion"
	FactorPreference     = "preference"
	FactorPopularity     = "popularity"
	FactorPrice          = "price"
)

// Weights distribute the four normalized composite terms.
type Weights struct {
	Sustainability float64
	Promotion      float64
	Preference     float64
	Popularity     float64
}

// DefaultWeights are the documented composite weights.
func DefaultWeights() Weights {
	return Weights{Sustainability: 0.40, Promotion: 0.25, Preference: 0.20, Popularity: 0.15}
}

// Thresholds are the tier boundaries, kept in one place instead of repeated
// magic numbers.
type Thresholds struct {
	TopTier int
	MidTier int
}

// DefaultThresholds returns the documented tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{TopTier: 85, MidTier: 60}
}

// Tier labels derived from the composite score.
const (
	TierTop = "top_tier"
	TierMid = "mid_tier"
	TierLow = "low_tier"
)

// Tier maps a composite score to its tier label.
func (t Thresholds) Tier(score float64) string {
	switch {
	case score >= float64(t.TopTier):
		return TierTop
	case score >= float64(t.MidTier):
		return TierMid
	default:
		return TierLow
	}
}

// Preferences map factor names to caller-supplied weights in [0,1]. A
// non-empty map is authoritative: composite factors it does not name carry
// no weight in the ordering. A nil or empty map means no stated preferences
// and falls back to the engine's base weights and a uniform match default.
type Preferences map[string]float64

// Input pairs a product with its sustainability assessment for ranking.
type Input struct {
	Product    catalog.Product
	Assessment sustainability.Assessment
}

// Promotion describes a discount attached to a ranked product. Validity is
// implicit per request; nothing is persisted.
type Promotion struct {
	ProductID       string        `json:"product_id"`
	DiscountPercent int           `json:"discount_percent"`
	Strategy        string        `json:"strategy"`
	Reason          string        `json:"reason"`
	OriginalPrice   catalog.Money `json:"original_price"`
	DiscountedPrice catalog.Money `json:"discounted_price"`
}

// RankedProduct is a product annotated with its composite score, tier,
// position and, after promotion application, an attached Promotion.
type RankedProduct struct {
	Product    catalog.Product           `json:"product"`
	Assessment sustainability.Assessment `json:"assessment"`
	Composite  float64                   `json:"composite_score"`
	Breakdown  map[string]float64        `json:"breakdown"`
	Tier       string                    `json:"tier"`
	Position   int                       `json:"position"`
	Promotion  *Promotion                `json:"promotion,omitempty"`
}

// EngineOptions configure a ranking Engine.
type EngineOptions struct {
	Weights          Weights
	Thresholds       Thresholds
	ActivePromotions map[string]int // product ID -> discount percent
	Logger           logging.Logger
}

// Engine ranks products. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	weights    Weights
	thresholds Thresholds
	active     map[string]int
	logger     logging.Logger
}

// NewEngine creates an Engine with the documented default weights and tiers.
func NewEngine(optFns ...func(o *EngineOptions)) *Engine {
	opts := EngineOptions{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		weights:    opts.Weights,
		thresholds: opts.Thresholds,
		active:     opts.ActivePromotions,
		logger:     opts.Logger,
	}
}

// Thresholds exposes the configured tier boundaries.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Rank computes composite scores on unmodified prices and returns the batch
// ordered by composite descending. The sort is stable: equal composites keep
// their input batch order. Promotion application is a separate explicit step
// (see ApplyPromotions).
func (e *Engine) Rank(inputs []Input, prefs Preferences) []RankedProduct {
	ranked := make([]RankedProduct, len(inputs))
	weights := e.effectiveWeights(prefs)

	for i, in := range inputs {
		factors := e.factorScores(in)
		factors[FactorPreference] = preferenceMatch(factors, prefs)

		composite := weights.Sustainability*factors[FactorSustainability] +
			weights.Promotion*factors[FactorPromotion] +
			weights.Preference*factors[FactorPreference] +
			weights.Popularity*factors[FactorPopularity]
		composite = round2(composite)

		ranked[i] = RankedProduct{
			Product:    in.Product,
			Assessment: in.Assessment,
			Composite:  composite,
			Breakdown:  factors,
			Tier:       e.thresholds.Tier(composite),
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Composite > ranked[b].Composite
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}

	if len(ranked) > 0 {
		e.logger.Info("ranking.completed",
			"products", len(ranked),
			"top", ranked[0].Product.Name,
			"top_score", ranked[0].Composite)
	}

	return ranked
}

// factorScores computes the per-product factor values, each in [0,100].
func (e *Engine) factorScores(in Input) map[string]float64 {
	return map[string]float64{
		FactorSustainability: float64(in.Assessment.Score),
		FactorPromotion:      float64(e.activeDiscount(in.Product.ID)),
		FactorPopularity:     popularityScore(in.Product),
		FactorPrice:          priceScore(in.Product.Price),
	}
}

func (e *Engine) activeDiscount(productID string) int {
	if e.active == nil {
		return 0
	}
	return e.active[productID]
}

// effectiveWeights derives the composite weights from the caller's stated
// factor preferences. A non-empty preference map is authoritative: named
// factors scale their base weight, unnamed composite factors drop out of the
// composite entirely, and the result is renormalized to sum to one. The
// preference match term keeps its base weight, and since the match itself is
// computed from the same stated map, a single-factor preference yields an
// order driven purely by that factor. Without preferences the base weights
// apply unchanged.
func (e *Engine) effectiveWeights(prefs Preferences) Weights {
	w := e.weights
	if len(prefs) > 0 {
		w.Sustainability *= clamp01(prefs[FactorSustainability])
		w.Promotion *= clamp01(prefs[FactorPromotion])
		w.Popularity *= clamp01(prefs[FactorPopularity])
	}

	sum := w.Sustainability + w.Promotion + w.Preference + w.Popularity
	if sum <= 0 {
		return e.weights
	}
	w.Sustainability /= sum
	w.Promotion /= sum
	w.Preference /= sum
	w.Popularity /= sum
	return w
}

// preferenceMatch is the weighted similarity between the stated preference
// weights and the product's own factor scores. Without stated preferences a
// uniform default over all factors applies, so the term never fails.
func preferenceMatch(factors map[string]float64, prefs Preferences) float64 {
	if len(prefs) == 0 {
		prefs = Preferences{
			FactorSustainability: 1,
			FactorPromotion:      1,
			FactorPopularity:     1,
			FactorPrice:          1,
		}
	}

	var weighted, total float64
	for name, weight := range prefs {
		score, ok := factors[name]
		if !ok {
			continue
		}
		weight = clamp01(weight)
		weighted += weight * score
		total += weight
	}
	if total == 0 {
		return neutralFactor
	}
	return round2(weighted / total)
}

const neutralFactor = 50.0

// popularCategories are the boutique's consistently high-traffic categories.
var popularCategories = []string{"kitchen", "home", "decor"}

// popularityScore is a deterministic popularity proxy derived from eco tag
// count, the carbon annotation and category traffic. The original behavior
// mixed in a random trend factor; determinism here keeps ranking idempotent.
func popularityScore(p catalog.Product) float64 {
	score := 10.0
	score += float64(len(p.EcoTags)) * 8

	if p.CarbonScore < 50 {
		score += float64(50-p.CarbonScore) * 0.8
	}

	for _, c := range p.Categories {
		for _, popular := range popularCategories {
			if strings.EqualFold(c, popular) {
				score += 15
				break
			}
		}
	}

	return clamp(score, 0, 100)
}

// priceScore converts price into attractiveness: cheaper scores higher.
func priceScore(m catalog.Money) float64 {
	return clamp(100-m.Float64()/2, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
