// Package advisor assembles the SustainableAdvisor agent: it fetches catalog
// data, computes sustainability assessments and produces recommendation input
// for the recommender agent. All dependencies (model provider, catalog
// fetcher, logger) are injected at construction.
package advisor

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/model"
	"github.com/hupe1980/greenmesh/sustainability"
)

// AgentID identifies the advisor in orchestrator registries and A2A payloads.
const AgentID = "sustainable-advisor-001"

// Options configure the advisor agent.
type Options struct {
	Provider       model.Provider
	Fetcher        catalog.Fetcher
	Logger         logging.Logger
	RecommendLimit int
}

// Agent is the SustainableAdvisor: capabilities for sustainability analysis,
// eco scoring, recommendations and AI explanations over the product catalog.
type Agent struct {
	*agent.BaseAgent

	scorer   *sustainability.Scorer
	fetcher  catalog.Fetcher
	provider model.Provider
	limit    int
}

// New constructs the advisor with its capabilities and tools registered.
// Without a fetcher it serves the demo catalog; without a provider, reason
// and explanation text stays in canned template form.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		RecommendLimit: 3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = catalog.StaticFetcher(catalog.DemoCatalog())
	}

	a := &Agent{
		BaseAgent: agent.NewBaseAgent(AgentID, "SustainableAdvisor", func(o *agent.BaseAgentOptions) {
			o.Logger = opts.Logger
			o.Version = "2.0.0"
		}),
		scorer: sustainability.NewScorer(func(o *sustainability.ScorerOptions) {
			o.Provider = opts.Provider
			o.Logger = opts.Logger
		}),
		fetcher:  opts.Fetcher,
		provider: opts.Provider,
		limit:    opts.RecommendLimit,
	}

	a.registerTools()
	a.registerCapabilities()

	return a
}

func (a *Agent) registerCapabilities() {
	for _, c := range []agent.Capability{
		{
			Name:        "analyze_sustainability",
			Description: "Analyze products for sustainability metrics and environmental impact",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products": map[string]any{"type": "array"},
					"criteria": map[string]any{"type": "array"},
				},
			},
			Handler: a.analyzeSustainability,
		},
		{
			Name:        "get_recommendations",
			Description: "Get top sustainable product recommendations",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products": map[string]any{"type": "array"},
					"limit":    map[string]any{"type": "integer"},
				},
			},
			Handler: a.getRecommendations,
		},
		{
			Name:        "calculate_eco_score",
			Description: "Calculate the environmental impact score for a single product",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product": map[string]any{"type": "object"},
				},
				"required": []string{"product"},
			},
			Handler: a.calculateEcoScore,
		},
		{
			Name:        "ai_explanation",
			Description: "Generate a natural language sustainability explanation",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product": map[string]any{"type": "object"},
					"score":   map[string]any{"type": "integer"},
				},
				"required": []string{"product"},
			},
			Handler: a.aiExplanation,
		},
		{
			Name:        "sustainability_stats",
			Description: "Compute catalog-level sustainability statistics",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products": map[string]any{"type": "array"},
				},
			},
			Handler: a.sustainabilityStats,
		},
	} {
		if err := a.RegisterCapability(c); err != nil {
			panic(fmt.Sprintf("advisor: %v", err))
		}
	}
}

// loadProducts resolves the product batch for a capability: the explicit
// products parameter when given, otherwise a catalog fetch.
func (a *Agent) loadProducts(ctx context.Context, params map[string]any) ([]catalog.Product, error) {
	if raw, ok := params["products"]; ok {
		products, err := catalog.ProductsFromAny(raw)
		if err != nil {
			return nil, agent.NewInvalidParametersError("products", err.Error())
		}
		return catalog.EnrichSustainabilityData(products), nil
	}
	return a.fetcher.Fetch(ctx)
}

func (a *Agent) analyzeSustainability(ctx context.Context, params map[string]any) (map[string]any, error) {
	products, err := a.loadProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	assessments := a.scorer.AssessBatch(ctx, products)

	analyzed := make([]map[string]any, len(products))
	for i, p := range products {
		analyzed[i] = map[string]any{
			"product":              p,
			"sustainability_score": assessments[i].Score,
			"grade":                assessments[i].Grade,
			"is_sustainable":       assessments[i].IsSustainable,
			"sub_scores":           assessments[i].SubScores,
			"carbon_footprint":     assessments[i].Carbon,
			"reasons":              assessments[i].Reasons,
			"alternatives":         assessments[i].Alternatives,
		}
	}

	return map[string]any{
		"analyzed_products": analyzed,
		"summary":           sustainability.Summarize(assessments),
	}, nil
}

func (a *Agent) getRecommendations(ctx context.Context, params map[string]any) (map[string]any, error) {
	products, err := a.loadProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	limit := a.limit
	if v, ok := params["limit"]; ok {
		limit = toInt(v, a.limit)
	}

	assessments := a.scorer.AssessBatch(ctx, products)

	type scored struct {
		product    catalog.Product
		assessment sustainability.Assessment
	}
	batch := make([]scored, len(products))
	for i := range products {
		batch[i] = scored{products[i], assessments[i]}
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].assessment.Score > batch[j].assessment.Score
	})

	if limit > 0 && limit < len(batch) {
		batch = batch[:limit]
	}

	recommendations := make([]map[string]any, len(batch))
	for i, s := range batch {
		recommendations[i] = map[string]any{
			"position":             i + 1,
			"product":              s.product,
			"sustainability_score": s.assessment.Score,
			"grade":                s.assessment.Grade,
			"reasons":              s.assessment.Reasons,
		}
	}

	return map[string]any{
		"recommendations": recommendations,
		"total_evaluated": len(products),
		"ranking_criteria": map[string]any{
			"primary":   "sustainability_score",
			"threshold": sustainability.SustainableThreshold,
		},
	}, nil
}

func (a *Agent) calculateEcoScore(ctx context.Context, params map[string]any) (map[string]any, error) {
	result, err := a.CallTool(ctx, "sustainability_calculator", map[string]any{
		"product": params["product"],
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

func (a *Agent) aiExplanation(ctx context.Context, params map[string]any) (map[string]any, error) {
	product, err := catalog.ProductFromAny(params["product"])
	if err != nil {
		return nil, agent.NewInvalidParametersError("product", err.Error())
	}

	assessment := a.scorer.Assess(ctx, product)
	score := assessment.Score
	if v, ok := params["score"]; ok {
		score = toInt(v, score)
	}

	explanation, providerName := a.explain(ctx, product, score, assessment)

	return map[string]any{
		"explanation":          explanation,
		"key_factors":          keyFactors(assessment),
		"sustainability_score": score,
		"model_provider":       providerName,
	}, nil
}

// explain consults the ai_text_generator tool and degrades to a canned
// template when the model backend is unavailable. The explanation is never
// empty, so a provider outage never fails the request.
func (a *Agent) explain(ctx context.Context, p catalog.Product, score int, assessment sustainability.Assessment) (string, string) {
	if a.provider != nil {
		prompt := fmt.Sprintf(
			"Explain why %q has a sustainability score of %d/100. Focus on environmental benefits. Reply in two sentences.",
			p.Name, score,
		)
		result, err := a.CallTool(ctx, "ai_text_generator", map[string]any{"prompt": prompt})
		if err == nil {
			if text, ok := result.(string); ok && text != "" {
				return text, a.provider.Info().Provider
			}
		}
		a.Logger().Warn("advisor.explanation.fallback", "product_id", p.ID)
	}

	return fmt.Sprintf(
		"%s scores %d/100 for sustainability based on its %s profile and overall environmental impact.",
		p.Name, score, firstFactorLabel(assessment),
	), "fallback"
}

func (a *Agent) sustainabilityStats(ctx context.Context, params map[string]any) (map[string]any, error) {
	products, err := a.loadProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	assessments := a.scorer.AssessBatch(ctx, products)
	summary := sustainability.Summarize(assessments)

	tagCounts := map[string]int{}
	carbonDist := map[string]int{"excellent": 0, "good": 0, "fair": 0, "poor": 0}
	for _, p := range products {
		for _, tag := range p.EcoTags {
			tagCounts[tag]++
		}
		switch {
		case p.CarbonScore < 30:
			carbonDist["excellent"]++
		case p.CarbonScore < 50:
			carbonDist["good"]++
		case p.CarbonScore < 70:
			carbonDist["fair"]++
		default:
			carbonDist["poor"]++
		}
	}

	return map[string]any{
		"summary":                   summary,
		"top_eco_tags":              topTags(tagCounts, 5),
		"carbon_score_distribution": carbonDist,
	}, nil
}

func topTags(counts map[string]int, n int) []map[string]any {
	type tagCount struct {
		tag   string
		count int
	}
	tags := make([]tagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, tagCount{tag, count})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].count != tags[j].count {
			return tags[i].count > tags[j].count
		}
		return tags[i].tag < tags[j].tag
	})
	if len(tags) > n {
		tags = tags[:n]
	}

	out := make([]map[string]any, len(tags))
	for i, tc := range tags {
		out[i] = map[string]any{"tag": tc.tag, "count": tc.count}
	}
	return out
}

func keyFactors(a sustainability.Assessment) []string {
	var factors []string
	for factor, score := range a.SubScores {
		if score > 50 {
			factors = append(factors, factor)
		}
	}
	sort.Strings(factors)
	if len(factors) == 0 {
		factors = []string{"materials", "production"}
	}
	return factors
}

func firstFactorLabel(a sustainability.Assessment) string {
	factors := keyFactors(a)
	return factors[0]
}

func toInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}
