package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/tool"
)

func (a *Agent) registerTools() {
	tools := []tool.Tool{
		tool.NewFunctionTool(
			"sustainability_calculator",
			"Calculate sustainability metrics for a single product",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product": map[string]any{"type": "object"},
				},
				"required": []string{"product"},
			},
			a.sustainabilityCalculator,
			func(o *tool.FunctionToolOptions) { o.Logger = a.Logger() },
		),
		tool.NewFunctionTool(
			"eco_category_analyzer",
			"Analyze the eco-friendliness of product categories across a batch",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"products": map[string]any{"type": "array"},
				},
				"required": []string{"products"},
			},
			a.ecoCategoryAnalyzer,
			func(o *tool.FunctionToolOptions) { o.Logger = a.Logger() },
		),
		tool.NewFunctionTool(
			"ai_text_generator",
			"Generate natural language text via the configured model provider",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt": map[string]any{"type": "string"},
				},
				"required": []string{"prompt"},
			},
			a.aiTextGenerator,
			func(o *tool.FunctionToolOptions) { o.Logger = a.Logger() },
		),
	}

	for _, t := range tools {
		if err := a.RegisterTool(t); err != nil {
			panic(fmt.Sprintf("advisor: %v", err))
		}
	}
}

func (a *Agent) sustainabilityCalculator(ctx context.Context, args map[string]any) (any, error) {
	product, err := catalog.ProductFromAny(args["product"])
	if err != nil {
		return nil, tool.NewToolError("sustainability_calculator", err.Error(), "VALIDATION_ERROR")
	}

	assessment := a.scorer.Assess(ctx, product)

	return map[string]any{
		"product_id":       assessment.ProductID,
		"product_name":     assessment.ProductName,
		"eco_score":        assessment.Score,
		"grade":            assessment.Grade,
		"is_sustainable":   assessment.IsSustainable,
		"sub_scores":       assessment.SubScores,
		"carbon_footprint": assessment.Carbon,
		"reasons":          assessment.Reasons,
	}, nil
}

func (a *Agent) ecoCategoryAnalyzer(ctx context.Context, args map[string]any) (any, error) {
	products, err := catalog.ProductsFromAny(args["products"])
	if err != nil {
		return nil, tool.NewToolError("eco_category_analyzer", err.Error(), "VALIDATION_ERROR")
	}
	products = catalog.EnrichSustainabilityData(products)

	type bucket struct {
		count      int
		scoreTotal int
		ecoTagged  int
	}
	buckets := map[string]*bucket{}
	for _, p := range products {
		assessment := a.scorer.Assess(ctx, p)
		for _, cat := range p.Categories {
			cat = strings.ToLower(cat)
			b, ok := buckets[cat]
			if !ok {
				b = &bucket{}
				buckets[cat] = b
			}
			b.count++
			b.scoreTotal += assessment.Score
			if len(p.EcoTags) > 0 {
				b.ecoTagged++
			}
		}
	}

	categories := make([]map[string]any, 0, len(buckets))
	for cat, b := range buckets {
		categories = append(categories, map[string]any{
			"category":            cat,
			"product_count":       b.count,
			"average_eco_score":   float64(b.scoreTotal) / float64(b.count),
			"eco_tagged_products": b.ecoTagged,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		si := categories[i]["average_eco_score"].(float64)
		sj := categories[j]["average_eco_score"].(float64)
		if si != sj {
			return si > sj
		}
		return categories[i]["category"].(string) < categories[j]["category"].(string)
	})

	return map[string]any{
		"categories":     categories,
		"total_products": len(products),
	}, nil
}

func (a *Agent) aiTextGenerator(ctx context.Context, args map[string]any) (any, error) {
	if a.provider == nil {
		return nil, tool.NewToolError("ai_text_generator", "no model provider configured", "MODEL_UNAVAILABLE")
	}

	prompt, _ := args["prompt"].(string)

	text, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return text, nil
}
