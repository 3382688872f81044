package ranking

import (
	"context"
	"sort"
	"testing"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/sustainability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoInputs(t *testing.T) []Input {
	t.Helper()

	scorer := sustainability.NewScorer()
	products := catalog.EnrichSustainabilityData(catalog.DemoCatalog())

	inputs := make([]Input, len(products))
	for i, p := range products {
		inputs[i] = Input{Product: p, Assessment: scorer.Assess(context.Background(), p)}
	}
	return inputs
}

// -------------------- Ranking Tests --------------------

func TestRank_OrderAndPositions(t *testing.T) {
	e := NewEngine(func(o *EngineOptions) { o.ActivePromotions = DefaultActivePromotions() })

	ranked := e.Rank(demoInputs(t), nil)
	require.NotEmpty(t, ranked)

	for i := range ranked {
		assert.Equal(t, i+1, ranked[i].Position)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Composite, ranked[i].Composite)
		}
		assert.NotEmpty(t, ranked[i].Tier)
		assert.Contains(t, ranked[i].Breakdown, FactorSustainability)
		assert.Contains(t, ranked[i].Breakdown, FactorPreference)
	}
}

func TestRank_Deterministic(t *testing.T) {
	e := NewEngine()
	inputs := demoInputs(t)

	first := e.Rank(inputs, nil)
	second := e.Rank(inputs, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Product.ID, second[i].Product.ID)
		assert.Equal(t, first[i].Composite, second[i].Composite)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	e := NewEngine()

	// Identical products score identically; stable sort keeps input order.
	p := catalog.Product{ID: "A", Name: "Twin", CarbonScore: 50}
	q := p
	q.ID = "B"

	assessment := sustainability.NewScorer().Assess(context.Background(), p)
	ranked := e.Rank([]Input{
		{Product: p, Assessment: assessment},
		{Product: q, Assessment: assessment},
	}, nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, ranked[0].Composite, ranked[1].Composite)
	assert.Equal(t, "A", ranked[0].Product.ID)
	assert.Equal(t, "B", ranked[1].Product.ID)
}

func TestRank_SustainabilityOnlyPreference(t *testing.T) {
	e := NewEngine(func(o *EngineOptions) { o.ActivePromotions = DefaultActivePromotions() })
	inputs := demoInputs(t)

	// A stated preference map is authoritative, so the unnamed promotion
	// factor drops out and the order follows the sustainability score alone.
	ranked := e.Rank(inputs, Preferences{
		FactorSustainability: 1.0,
		FactorPopularity:     0.0,
	})

	scores := make([]int, len(ranked))
	for i, rp := range ranked {
		scores[i] = rp.Assessment.Score
	}
	assert.True(t, sort.SliceIsSorted(scores, func(i, j int) bool { return scores[i] > scores[j] }))
}

func TestRank_PromotionCannotOverrideStatedPreferences(t *testing.T) {
	e := NewEngine(func(o *EngineOptions) {
		o.ActivePromotions = map[string]int{"B": 25}
	})

	// B carries an active promotion but scores lower on sustainability.
	inputs := []Input{
		{Product: catalog.Product{ID: "B", Name: "Promoted"}, Assessment: sustainability.Assessment{Score: 80}},
		{Product: catalog.Product{ID: "A", Name: "Greener"}, Assessment: sustainability.Assessment{Score: 90}},
	}

	ranked := e.Rank(inputs, Preferences{
		FactorSustainability: 1.0,
		FactorPopularity:     0.0,
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].Product.ID)
	assert.Equal(t, "B", ranked[1].Product.ID)
}

func TestEffectiveWeights_SumToOne(t *testing.T) {
	e := NewEngine()

	for _, prefs := range []Preferences{
		nil,
		{FactorSustainability: 1.0},
		{FactorSustainability: 1.0, FactorPopularity: 0.0},
		{FactorSustainability: 0.5, FactorPromotion: 0.5, FactorPopularity: 0.5},
	} {
		w := e.effectiveWeights(prefs)
		sum := w.Sustainability + w.Promotion + w.Preference + w.Popularity
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestEffectiveWeights_AllZeroFallsBack(t *testing.T) {
	e := NewEngine(func(o *EngineOptions) {
		o.Weights = Weights{Sustainability: 1.0} // preference term weightless
	})

	w := e.effectiveWeights(Preferences{FactorSustainability: 0.0})
	assert.Equal(t, e.weights, w)
}

func TestPreferenceMatch_Neutral(t *testing.T) {
	factors := map[string]float64{
		FactorSustainability: 80,
		FactorPromotion:      20,
		FactorPopularity:     40,
		FactorPrice:          60,
	}

	// Unknown factor names contribute nothing; all-unknown yields neutral.
	assert.Equal(t, neutralFactor, preferenceMatch(factors, Preferences{"bogus": 1.0}))

	// A single stated preference tracks that factor exactly.
	assert.Equal(t, 80.0, preferenceMatch(factors, Preferences{FactorSustainability: 1.0}))
}

func TestTierBoundaries(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, TierTop, th.Tier(85))
	assert.Equal(t, TierTop, th.Tier(92.5))
	assert.Equal(t, TierMid, th.Tier(84.99))
	assert.Equal(t, TierMid, th.Tier(60))
	assert.Equal(t, TierLow, th.Tier(59.99))
}

// -------------------- Promotion Tests --------------------

func TestApplyPromotions_SustainabilityFocused(t *testing.T) {
	e := NewEngine()
	ranked := e.Rank(demoInputs(t), nil)

	promoted, summary := e.ApplyPromotions(ranked, DefaultPolicy(StrategySustainabilityFocused))

	assert.Equal(t, StrategySustainabilityFocused, summary.StrategyUsed)
	for _, rp := range promoted {
		if rp.Promotion == nil {
			continue
		}
		assert.GreaterOrEqual(t, rp.Assessment.Score, 80)
		assert.Equal(t, 15, rp.Promotion.DiscountPercent)
		// Original price is preserved on the product itself.
		assert.Equal(t, rp.Product.Price, rp.Promotion.OriginalPrice)
		assert.Less(t, rp.Promotion.DiscountedPrice.Float64(), rp.Promotion.OriginalPrice.Float64())
	}
	if summary.TotalPromotions > 0 {
		assert.Greater(t, summary.TotalDiscountValue, 0.0)
	}
}

func TestApplyPromotions_PriceCompetitive(t *testing.T) {
	e := NewEngine()
	ranked := e.Rank(demoInputs(t), nil)

	promoted, summary := e.ApplyPromotions(ranked, DefaultPolicy(StrategyPriceCompetitive))

	assert.Equal(t, StrategyPriceCompetitive, summary.StrategyUsed)
	for _, rp := range promoted {
		if rp.Promotion != nil {
			assert.Greater(t, rp.Product.Price.Float64(), 50.0)
			assert.Equal(t, 10, rp.Promotion.DiscountPercent)
		}
	}
}

func TestApplyPromotions_Idempotent(t *testing.T) {
	e := NewEngine()
	policy := DefaultPolicy(StrategySustainabilityFocused)

	once, firstSummary := e.ApplyPromotions(e.Rank(demoInputs(t), nil), policy)
	twice, secondSummary := e.ApplyPromotions(once, policy)

	// apply(apply(b)) == apply(b): same promotions, same discounts.
	assert.Equal(t, firstSummary, secondSummary)
	for i := range twice {
		if once[i].Promotion == nil {
			assert.Nil(t, twice[i].Promotion)
			continue
		}
		assert.Equal(t, once[i].Promotion.DiscountPercent, twice[i].Promotion.DiscountPercent)
		assert.Equal(t, once[i].Promotion.DiscountedPrice, twice[i].Promotion.DiscountedPrice)
	}
}

func TestApplyPromotions_TopN(t *testing.T) {
	e := NewEngine()
	ranked := e.Rank(demoInputs(t), nil)

	policy := DefaultPolicy(StrategySustainabilityFocused)
	policy.ScoreThreshold = 0 // everything qualifies on score
	policy.TopN = 2

	promoted, summary := e.ApplyPromotions(ranked, policy)

	assert.Equal(t, 2, summary.TotalPromotions)
	for _, rp := range promoted {
		if rp.Position > 2 {
			assert.Nil(t, rp.Promotion)
		} else {
			assert.NotNil(t, rp.Promotion)
		}
	}
}

func TestDefaultPolicy_UnknownStrategy(t *testing.T) {
	p := DefaultPolicy("whatever")
	assert.Equal(t, StrategySustainabilityFocused, p.Strategy)
}

// -------------------- Factor Tests --------------------

func TestPopularityScore_Deterministic(t *testing.T) {
	p := catalog.Product{
		ID:          "X",
		Name:        "Test",
		Categories:  []string{"kitchen"},
		EcoTags:     []string{"sustainable"},
		CarbonScore: 30,
	}

	first := popularityScore(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, popularityScore(p))
	}
	assert.GreaterOrEqual(t, first, 0.0)
	assert.LessOrEqual(t, first, 100.0)
}

func TestPriceScore(t *testing.T) {
	assert.Equal(t, 100.0, priceScore(catalog.MoneyFromFloat64("USD", 0)))
	assert.Equal(t, 50.0, priceScore(catalog.MoneyFromFloat64("USD", 100)))
	assert.Equal(t, 0.0, priceScore(catalog.MoneyFromFloat64("USD", 500)))
}
