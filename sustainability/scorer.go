// Package sustainability computes environmental scores and carbon footprint
// estimates for catalog products. Scoring is a deterministic function of the
// product attributes; only the optional natural-language rephrasing of
// reasons consults a model provider, and it degrades to canned templates when
// the provider is unavailable.
package sustainability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/model"
)

// Weights distribute the four normalized sub-scores into the final score.
type Weights struct {
	Materials  float64
	Production float64
	Transport  float64
	EndOfLife  float64
}

// DefaultWeights are the documented scoring weights.
func DefaultWeights() Weights {
	return Weights{Materials: 0.40, Production: 0.25, Transport: 0.20, EndOfLife: 0.15}
}

// SustainableThreshold is the minimum score for a product to count as
// sustainable in summaries and promotion policies.
const SustainableThreshold = 60

// CarbonFootprint breaks the carbon estimate into lifecycle stages. All
// components are non-negative.
type CarbonFootprint struct {
	ProductionKg float64 `json:"production_kg"`
	TransportKg  float64 `json:"transport_kg"`
	PackagingKg  float64 `json:"packaging_kg"`
}

// TotalKg returns the summed footprint.
func (c CarbonFootprint) TotalKg() float64 {
	return c.ProductionKg + c.TransportKg + c.PackagingKg
}

// Alternative references a higher-scoring product from the same input batch.
type Alternative struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
}

// Assessment is the per-product scoring output. It references the product by
// identifier; the product itself stays owned by the calling request.
type Assessment struct {
	ProductID     string             `json:"product_id"`
	ProductName   string             `json:"product_name"`
	Score         int                `json:"score"`
	Grade         string             `json:"grade"`
	IsSustainable bool               `json:"is_sustainable"`
	SubScores     map[string]float64 `json:"sub_scores"`
	Carbon        CarbonFootprint    `json:"carbon_footprint"`
	Reasons       []string           `json:"reasons"`
	Alternatives  []Alternative      `json:"alternatives,omitempty"`
}

// ScorerOptions configure a Scorer.
type ScorerOptions struct {
	Provider model.Provider
	Logger   logging.Logger
	Weights  Weights
}

// Scorer computes sustainability assessments. It is stateless between calls
// and safe for concurrent use.
type Scorer struct {
	provider model.Provider
	logger   logging.Logger
	weights  Weights
}

// NewScorer creates a Scorer. Without a provider, reasons stay in their
// canned template form.
func NewScorer(optFns ...func(o *ScorerOptions)) *Scorer {
	opts := ScorerOptions{
		Logger:  logging.NoOpLogger{},
		Weights: DefaultWeights(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scorer{provider: opts.Provider, logger: opts.Logger, weights: opts.Weights}
}

// Assess scores a single product. Same attributes always produce the same
// score; provider variance only affects reason phrasing.
func (s *Scorer) Assess(ctx context.Context, p catalog.Product) Assessment {
	sub := map[string]float64{
		"materials":   s.materialScore(p),
		"production":  s.productionScore(p),
		"transport":   s.transportScore(p),
		"end_of_life": s.endOfLifeScore(p),
	}

	weighted := sub["materials"]*s.weights.Materials +
		sub["production"]*s.weights.Production +
		sub["transport"]*s.weights.Transport +
		sub["end_of_life"]*s.weights.EndOfLife

	score := int(math.Round(clamp(weighted, 0, 100)))

	a := Assessment{
		ProductID:     p.ID,
		ProductName:   p.Name,
		Score:         score,
		Grade:         Grade(score),
		IsSustainable: score >= SustainableThreshold,
		SubScores:     sub,
		Carbon:        s.carbonFootprint(p, sub["transport"]),
	}
	a.Reasons = s.reasons(ctx, p, a)

	return a
}

// AssessBatch scores every product in the batch and fills in alternatives:
// for each product, up to three higher-scoring products from the same batch.
// The scorer never fabricates products.
func (s *Scorer) AssessBatch(ctx context.Context, products []catalog.Product) []Assessment {
	assessments := make([]Assessment, len(products))
	for i, p := range products {
		assessments[i] = s.Assess(ctx, p)
	}

	for i := range assessments {
		assessments[i].Alternatives = alternativesFor(assessments, i)
	}

	return assessments
}

func alternativesFor(assessments []Assessment, idx int) []Alternative {
	var alts []Alternative
	for j, other := range assessments {
		if j == idx || other.Score <= assessments[idx].Score {
			continue
		}
		alts = append(alts, Alternative{
			ProductID: other.ProductID,
			Name:      other.ProductName,
			Score:     other.Score,
		})
	}
	sort.SliceStable(alts, func(a, b int) bool { return alts[a].Score > alts[b].Score })
	if len(alts) > 3 {
		alts = alts[:3]
	}
	return alts
}

func (s *Scorer) materialScore(p catalog.Product) float64 {
	return signalScore(p, materialSignals, false)
}

func (s *Scorer) productionScore(p catalog.Product) float64 {
	score := signalScore(p, productionSignals, true)
	// A low upstream carbon annotation is a production-process proxy.
	if p.CarbonScore < 50 {
		score += float64(50-p.CarbonScore) * 0.5
	}
	return clamp(score, 0, 100)
}

func (s *Scorer) transportScore(p catalog.Product) float64 {
	score := signalScore(p, transportSignals, true)
	if p.CarbonScore > 70 {
		score -= float64(p.CarbonScore-70) * 0.5
	}
	// Heavy products ship with a larger footprint. Unknown weight stays neutral.
	if p.WeightKg > 1.0 {
		score -= (p.WeightKg - 1.0) * 5
	}
	return clamp(score, 0, 100)
}

func (s *Scorer) endOfLifeScore(p catalog.Product) float64 {
	return signalScore(p, endOfLifeSignals, false)
}

// signalScore starts at the neutral baseline and adds every matching signal
// from the table, looking at eco tags and name/description keywords, plus
// category bonuses when requested.
func signalScore(p catalog.Product, signals map[string]float64, withCategories bool) float64 {
	score := neutralSubScore
	text := strings.ToLower(p.Name + " " + p.Description)

	for signal, boost := range signals {
		if p.HasEcoTag(signal) || strings.Contains(text, signal) {
			score += boost
		}
	}

	if withCategories {
		for _, c := range p.Categories {
			score += categoryBonuses[strings.ToLower(c)]
		}
	}

	return clamp(score, 0, 100)
}

// carbonFootprint estimates lifecycle emissions from the upstream carbon
// annotation, the product weight and the transport sub-score. Unknown weight
// assumes a small parcel.
func (s *Scorer) carbonFootprint(p catalog.Product, transportScore float64) CarbonFootprint {
	weight := p.WeightKg
	if weight <= 0 {
		weight = 0.5
	}

	return CarbonFootprint{
		ProductionKg: round2(float64(p.CarbonScore) / 100 * 8 * weight),
		TransportKg:  round2((100 - transportScore) / 100 * 3 * weight),
		PackagingKg:  round2(0.2 * weight),
	}
}

// Grade converts a numeric score to the letter grade shown to shoppers.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// subScoreLabels map sub-score keys to the phrasing used in canned reasons.
var subScoreLabels = map[string]string{
	"materials":   "material composition",
	"production":  "production process",
	"transport":   "transport and locality",
	"end_of_life": "end-of-life recyclability",
}

// reasons lists the sub-scores that contributed most positively, optionally
// rephrased through the model provider. A provider failure substitutes the
// canned templates; the result is never empty.
func (s *Scorer) reasons(ctx context.Context, p catalog.Product, a Assessment) []string {
	canned := cannedReasons(a)

	if s.provider == nil {
		return canned
	}

	prompt := fmt.Sprintf(
		"Explain in one sentence why %q has a sustainability score of %d/100. Key factors: %s.",
		p.Name, a.Score, strings.Join(topFactors(a.SubScores), ", "),
	)

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("sustainability.reasons.fallback", "product_id", p.ID, "error", fmt.Sprint(err))
		return canned
	}

	return append([]string{strings.TrimSpace(text)}, canned...)
}

func cannedReasons(a Assessment) []string {
	var reasons []string
	for _, key := range topFactors(a.SubScores) {
		reasons = append(reasons, fmt.Sprintf(
			"Strong %s (%.0f/100)", subScoreLabels[key], a.SubScores[key],
		))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf(
			"Scored %d/100 against standard sustainability criteria", a.Score,
		))
	}
	return reasons
}

// topFactors returns the sub-score keys above neutral, strongest first, in a
// deterministic order.
func topFactors(sub map[string]float64) []string {
	keys := make([]string, 0, len(sub))
	for k, v := range sub {
		if v > neutralSubScore {
			keys = append(keys, k)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if sub[keys[i]] != sub[keys[j]] {
			return sub[keys[i]] > sub[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Summary aggregates batch-level sustainability statistics.
type Summary struct {
	TotalProducts       int     `json:"total_products"`
	SustainableProducts int     `json:"sustainable_products"`
	AverageScore        float64 `json:"average_score"`
	SustainabilityRate  float64 `json:"sustainability_rate"`
}

// Summarize computes batch statistics over a set of assessments.
func Summarize(assessments []Assessment) Summary {
	sum := Summary{TotalProducts: len(assessments)}
	if len(assessments) == 0 {
		return sum
	}

	total := 0
	for _, a := range assessments {
		total += a.Score
		if a.IsSustainable {
			sum.SustainableProducts++
		}
	}
	sum.AverageScore = round2(float64(total) / float64(len(assessments)))
	sum.SustainabilityRate = round2(float64(sum.SustainableProducts) / float64(len(assessments)) * 100)

	return sum
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
