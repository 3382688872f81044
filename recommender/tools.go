package recommender

import (
	"context"
	"fmt"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/ranking"
	"github.com/hupe1980/greenmesh/tool"
)

func (a *Agent) registerTools() {
	tools := []tool.Tool{
		tool.NewFunctionTool(
			"multi_factor_scorer",
			"Compute the composite score breakdown for a single product",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product":     map[string]any{"type": "object"},
					"preferences": map[string]any{"type": "object"},
				},
				"required": []string{"product"},
			},
			a.multiFactorScorer,
			func(o *tool.FunctionToolOptions) { o.Logger = a.Logger() },
		),
		tool.NewFunctionTool(
			"promotion_calculator",
			"Evaluate a promotion strategy against a single product",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product":  map[string]any{"type": "object"},
					"strategy": map[string]any{"type": "string"},
				},
				"required": []string{"product"},
			},
			a.promotionCalculator,
			func(o *tool.FunctionToolOptions) { o.Logger = a.Logger() },
		),
	}

	for _, t := range tools {
		if err := a.RegisterTool(t); err != nil {
			panic(fmt.Sprintf("recommender: %v", err))
		}
	}
}

func (a *Agent) multiFactorScorer(ctx context.Context, args map[string]any) (any, error) {
	product, err := catalog.ProductFromAny(args["product"])
	if err != nil {
		return nil, tool.NewToolError("multi_factor_scorer", err.Error(), "VALIDATION_ERROR")
	}
	product = catalog.EnrichSustainabilityData([]catalog.Product{product})[0]

	prefs := preferencesFromAny(args["preferences"])
	ranked := a.engine.Rank([]ranking.Input{
		{Product: product, Assessment: a.scorer.Assess(ctx, product)},
	}, prefs)

	rp := ranked[0]
	return map[string]any{
		"product_id":      rp.Product.ID,
		"composite_score": rp.Composite,
		"breakdown":       rp.Breakdown,
		"tier":            rp.Tier,
	}, nil
}

func (a *Agent) promotionCalculator(ctx context.Context, args map[string]any) (any, error) {
	product, err := catalog.ProductFromAny(args["product"])
	if err != nil {
		return nil, tool.NewToolError("promotion_calculator", err.Error(), "VALIDATION_ERROR")
	}
	product = catalog.EnrichSustainabilityData([]catalog.Product{product})[0]

	strategy, _ := args["strategy"].(string)
	policy := ranking.DefaultPolicy(strategy)

	ranked := a.engine.Rank([]ranking.Input{
		{Product: product, Assessment: a.scorer.Assess(ctx, product)},
	}, nil)
	promoted, _ := a.engine.ApplyPromotions(ranked, policy)

	result := map[string]any{
		"product_id": product.ID,
		"strategy":   policy.Strategy,
		"eligible":   promoted[0].Promotion != nil,
	}
	if p := promoted[0].Promotion; p != nil {
		result["promotion"] = p
	}
	return result, nil
}
