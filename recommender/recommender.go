// Package recommender assembles the RecommenderAgent agent: it ranks
// product batches on the multi-factor composite, applies promotion strategies
// and produces the final recommendation payload. It accepts either plain
// products or the advisor's analyzed output, so it works standalone and as
// the second step of the recommendation workflow.
package recommender

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/ranking"
	"github.com/hupe1980/greenmesh/sustainability"
)

// AgentID identifies the recommender in orchestrator registries and A2A
// payloads.
const AgentID = "product-recommender-001"

// Options configure the recommender agent.
type Options struct {
	Logger           logging.Logger
	Weights          ranking.Weights
	ActivePromotions map[string]int
	RecommendLimit   int
}

// Agent is the RecommenderAgent: capabilities for multi-factor ranking,
// promotion application and recommendation optimization.
type Agent struct {
	*agent.BaseAgent

	engine *ranking.Engine
	scorer *sustainability.Scorer
	limit  int
}

// New constructs the recommender with its capabilities and tools registered.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger:           logging.NoOpLogger{},
		Weights:          ranking.DefaultWeights(),
		ActivePromotions: ranking.DefaultActivePromotions(),
		RecommendLimit:   5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{
		BaseAgent: agent.NewBaseAgent(AgentID, "RecommenderAgent", func(o *agent.BaseAgentOptions) {
			o.Logger = opts.Logger
			o.Version = "2.0.0"
		}),
		engine: ranking.NewEngine(func(o *ranking.EngineOptions) {
			o.Weights = opts.Weights
			o.ActivePromotions = opts.ActivePromotions
			o.Logger = opts.Logger
		}),
		scorer: sustainability.NewScorer(func(o *sustainability.ScorerOptions) {
			o.Logger = opts.Logger
		}),
		limit: opts.RecommendLimit,
	}

	a.registerTools()
	a.registerCapabilities()

	return a
}

func (a *Agent) registerCapabilities() {
	for _, c := range []agent.Capability{
		{
			Name:        "rank_products",
			Description: "Rank products by the multi-factor composite score",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products":    map[string]any{"type": "array"},
					"preferences": map[string]any{"type": "object"},
				},
				"required": []string{"products"},
			},
			Handler: a.rankProducts,
		},
		{
			Name:        "apply_promotions",
			Description: "Apply a promotion strategy to a ranked product batch",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products": map[string]any{"type": "array"},
					"strategy": map[string]any{"type": "string"},
				},
				"required": []string{"products"},
			},
			Handler: a.applyPromotions,
		},
		{
			Name:        "calculate_multi_score",
			Description: "Calculate the composite score breakdown for a single product",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product":     map[string]any{"type": "object"},
					"preferences": map[string]any{"type": "object"},
				},
				"required": []string{"product"},
			},
			Handler: a.calculateMultiScore,
		},
		{
			Name:        "optimize_recommendations",
			Description: "Rank, promote and trim a product batch into final recommendations",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products":    map[string]any{"type": "array"},
					"preferences": map[string]any{"type": "object"},
					"strategy":    map[string]any{"type": "string"},
					"limit":       map[string]any{"type": "integer"},
				},
				"required": []string{"products"},
			},
			Handler: a.optimizeRecommendations,
		},
	} {
		if err := a.RegisterCapability(c); err != nil {
			panic(fmt.Sprintf("recommender: %v", err))
		}
	}
}

func (a *Agent) rankProducts(ctx context.Context, params map[string]any) (map[string]any, error) {
	inputs, err := a.inputsFromParams(ctx, params)
	if err != nil {
		return nil, err
	}

	ranked := a.engine.Rank(inputs, preferencesFromAny(params["preferences"]))

	return map[string]any{
		"ranked_products": ranked,
		"total_ranked":    len(ranked),
	}, nil
}

func (a *Agent) applyPromotions(ctx context.Context, params map[string]any) (map[string]any, error) {
	ranked, err := rankedFromAny(params["products"])
	if err != nil {
		// The batch may be plain products that were never ranked. Rank them
		// first so the promotion pass has positions to work with.
		inputs, inErr := a.inputsFromParams(ctx, params)
		if inErr != nil {
			return nil, inErr
		}
		ranked = a.engine.Rank(inputs, nil)
	}

	strategy, _ := params["strategy"].(string)
	policy := ranking.DefaultPolicy(strategy)

	promoted, summary := a.engine.ApplyPromotions(ranked, policy)

	return map[string]any{
		"promoted_products": promoted,
		"promotion_summary": summary,
	}, nil
}

func (a *Agent) calculateMultiScore(ctx context.Context, params map[string]any) (map[string]any, error) {
	result, err := a.CallTool(ctx, "multi_factor_scorer", map[string]any{
		"product":     params["product"],
		"preferences": params["preferences"],
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

func (a *Agent) optimizeRecommendations(ctx context.Context, params map[string]any) (map[string]any, error) {
	inputs, err := a.inputsFromParams(ctx, params)
	if err != nil {
		return nil, err
	}

	ranked := a.engine.Rank(inputs, preferencesFromAny(params["preferences"]))

	strategy, _ := params["strategy"].(string)
	promoted, summary := a.engine.ApplyPromotions(ranked, ranking.DefaultPolicy(strategy))

	limit := a.limit
	if v, ok := params["limit"]; ok {
		limit = toInt(v, a.limit)
	}
	if limit > 0 && limit < len(promoted) {
		promoted = promoted[:limit]
	}

	tiers := map[string]int{}
	for _, rp := range promoted {
		tiers[rp.Tier]++
	}

	return map[string]any{
		"recommendations":   promoted,
		"promotion_summary": summary,
		"tier_distribution": tiers,
		"total_evaluated":   len(inputs),
	}, nil
}

// inputsFromParams decodes the products parameter into ranking inputs. Two
// shapes are accepted: plain product objects, which get assessed locally, and
// the advisor's analyzed entries carrying their own assessment.
func (a *Agent) inputsFromParams(ctx context.Context, params map[string]any) ([]ranking.Input, error) {
	raw, ok := params["products"]
	if !ok {
		return nil, agent.NewInvalidParametersError("products", "parameter is required")
	}

	if inputs, err := analyzedInputsFromAny(raw); err == nil && len(inputs) > 0 {
		return inputs, nil
	}

	products, err := catalog.ProductsFromAny(raw)
	if err != nil {
		return nil, agent.NewInvalidParametersError("products", err.Error())
	}
	products = catalog.EnrichSustainabilityData(products)

	inputs := make([]ranking.Input, len(products))
	for i, p := range products {
		inputs[i] = ranking.Input{Product: p, Assessment: a.scorer.Assess(ctx, p)}
	}
	return inputs, nil
}

// analyzedEntry is the advisor's analyze_sustainability output shape.
type analyzedEntry struct {
	Product             catalog.Product                `json:"product"`
	SustainabilityScore *int                           `json:"sustainability_score"`
	Grade               string                         `json:"grade"`
	IsSustainable       bool                           `json:"is_sustainable"`
	SubScores           map[string]float64             `json:"sub_scores"`
	Carbon              sustainability.CarbonFootprint `json:"carbon_footprint"`
	Reasons             []string                       `json:"reasons"`
}

func analyzedInputsFromAny(v any) ([]ranking.Input, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var entries []analyzedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	inputs := make([]ranking.Input, 0, len(entries))
	for _, e := range entries {
		if e.SustainabilityScore == nil || e.Product.ID == "" {
			return nil, fmt.Errorf("entry is not an analyzed product")
		}
		inputs = append(inputs, ranking.Input{
			Product: e.Product,
			Assessment: sustainability.Assessment{
				ProductID:     e.Product.ID,
				ProductName:   e.Product.Name,
				Score:         *e.SustainabilityScore,
				Grade:         e.Grade,
				IsSustainable: e.IsSustainable,
				SubScores:     e.SubScores,
				Carbon:        e.Carbon,
				Reasons:       e.Reasons,
			},
		})
	}
	return inputs, nil
}

func rankedFromAny(v any) ([]ranking.RankedProduct, error) {
	if ranked, ok := v.([]ranking.RankedProduct); ok {
		return ranked, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var ranked []ranking.RankedProduct
	if err := json.Unmarshal(data, &ranked); err != nil {
		return nil, err
	}
	for _, rp := range ranked {
		if rp.Position == 0 {
			return nil, fmt.Errorf("entry is not a ranked product")
		}
	}
	return ranked, nil
}

func preferencesFromAny(v any) ranking.Preferences {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	prefs := ranking.Preferences{}
	for name, raw := range m {
		switch n := raw.(type) {
		case float64:
			prefs[name] = n
		case int:
			prefs[name] = float64(n)
		}
	}
	return prefs
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
