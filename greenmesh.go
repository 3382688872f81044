// Package greenmesh provides a high-level façade over the agent runtime and
// the sustainability domain agents, enabling quick construction of the
// advisor/recommender pair. Most applications interact with this package by:
//  1. Creating a GreenMesh via New() (optionally overriding provider, fetcher or logger)
//  2. Running the built-in recommendation workflow via Recommend()
//  3. Or dispatching individual capabilities through Advisor() / Recommender()
//
// The façade delegates sequencing to workflow.Orchestrator while keeping setup
// ergonomics concise. All defaults are safe for local development: without API
// keys the deterministic fallback provider serves model text, and without a
// catalog endpoint the demo catalog serves product data.
package greenmesh

import (
	"context"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/greenmesh/advisor"
	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/config"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/model"
	"github.com/hupe1980/greenmesh/model/anthropic"
	"github.com/hupe1980/greenmesh/model/openai"
	"github.com/hupe1980/greenmesh/recommender"
	"github.com/hupe1980/greenmesh/workflow"
)

// Options configure the GreenMesh instance.
type Options struct {
	// Config supplies provider, strategy and transport settings. Defaults to
	// config.Load() when zero.
	Config config.Config

	// Provider overrides the model provider derived from Config.
	Provider model.Provider

	// Fetcher overrides the catalog source derived from Config.
	Fetcher catalog.Fetcher

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// GreenMesh aggregates the advisor, the recommender and the orchestrator that
// sequences them.
type GreenMesh struct {
	cfg          config.Config
	advisor      *advisor.Agent
	recommender  *recommender.Agent
	orchestrator *workflow.Orchestrator
}

// New creates a GreenMesh instance with both domain agents registered on a
// fresh orchestrator. Any unset dependency is initialized from Config.
func New(optFns ...func(o *Options)) *GreenMesh {
	opts := Options{
		Config: config.Load(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Provider == nil {
		opts.Provider = ProviderFromConfig(opts.Config)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = FetcherFromConfig(opts.Config)
	}

	adv := advisor.New(func(o *advisor.Options) {
		o.Provider = opts.Provider
		o.Fetcher = opts.Fetcher
		o.Logger = opts.Logger
		o.RecommendLimit = opts.Config.RecommendLimit
	})

	rec := recommender.New(func(o *recommender.Options) {
		o.Logger = opts.Logger
	})

	orch := workflow.NewOrchestrator(func(o *workflow.OrchestratorOptions) {
		o.Logger = opts.Logger
	})
	// Registration of fresh agents on a fresh orchestrator cannot collide.
	_ = orch.RegisterAgent(advisor.AgentID, adv)
	_ = orch.RegisterAgent(recommender.AgentID, rec)

	return &GreenMesh{
		cfg:          opts.Config,
		advisor:      adv,
		recommender:  rec,
		orchestrator: orch,
	}
}

// Advisor returns the SustainableAdvisor agent.
func (m *GreenMesh) Advisor() *advisor.Agent { return m.advisor }

// Recommender returns the RecommenderAgent agent.
func (m *GreenMesh) Recommender() *recommender.Agent { return m.recommender }

// Orchestrator returns the workflow orchestrator with both agents registered.
func (m *GreenMesh) Orchestrator() *workflow.Orchestrator { return m.orchestrator }

// RecommendationWorkflow is the canonical two-step pipeline: the advisor
// analyzes the batch, then the recommender ranks and promotes the analyzed
// output referenced through a previous_result placeholder.
func (m *GreenMesh) RecommendationWorkflow(products []catalog.Product, preferences map[string]float64) workflow.Workflow {
	analyzeParams := map[string]any{}
	if products != nil {
		analyzeParams["products"] = products
	}

	optimizeParams := map[string]any{
		"products": "{{previous_result.analyzed_products}}",
		"strategy": m.cfg.PromotionStrategy,
		"limit":    m.cfg.RecommendLimit,
	}
	if len(preferences) > 0 {
		prefs := map[string]any{}
		for name, weight := range preferences {
			prefs[name] = weight
		}
		optimizeParams["preferences"] = prefs
	}

	return workflow.Workflow{
		Name: "sustainable-recommendation",
		Steps: []workflow.Step{
			{
				AgentID:    advisor.AgentID,
				Capability: "analyze_sustainability",
				Parameters: analyzeParams,
			},
			{
				AgentID:    recommender.AgentID,
				Capability: "optimize_recommendations",
				Parameters: optimizeParams,
			},
		},
	}
}

// Recommend runs the recommendation workflow over the given products (nil
// means the configured catalog source) and returns the workflow result.
func (m *GreenMesh) Recommend(ctx context.Context, products []catalog.Product, preferences map[string]float64) workflow.Result {
	return m.orchestrator.Run(ctx, m.RecommendationWorkflow(products, preferences))
}

// Dispatch routes a request to one of the registered agents by ID. Unknown
// IDs produce a CAPABILITY_NOT_FOUND response rather than an error, matching
// the dispatch boundary contract.
func (m *GreenMesh) Dispatch(ctx context.Context, agentID string, req agent.Request) agent.Response {
	switch agentID {
	case advisor.AgentID:
		return m.advisor.Dispatch(ctx, req)
	case recommender.AgentID:
		return m.recommender.Dispatch(ctx, req)
	}
	return agent.Response{
		RequestID: req.ID,
		AgentID:   agentID,
		Success:   false,
		Error: &agent.ErrorDetail{
			Code:    agent.CodeCapabilityNotFound,
			Message: "unknown agent: " + agentID,
		},
	}
}

// ProviderFromConfig selects the model provider: openai or anthropic wrapped
// with the deterministic fallback as failover, or the bare fallback provider.
func ProviderFromConfig(cfg config.Config) model.Provider {
	fallback := model.NewFallbackProvider()

	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		p := openai.NewProvider(func(o *openai.Options) {
			if cfg.OpenAIModel != "" {
				o.Model = cfg.OpenAIModel
			}
			o.Timeout = cfg.ModelTimeout
		})
		return model.NewFailover(p, fallback)
	case config.ProviderAnthropic:
		p := anthropic.NewProvider(func(o *anthropic.Options) {
			if cfg.AnthropicModel != "" {
				o.Model = anthropicsdk.Model(cfg.AnthropicModel)
			}
			o.Timeout = cfg.ModelTimeout
		})
		return model.NewFailover(p, fallback)
	}
	return fallback
}

// FetcherFromConfig selects the catalog source: an HTTP fetcher when a
// catalog URL is configured, otherwise the demo catalog.
func FetcherFromConfig(cfg config.Config) catalog.Fetcher {
	if cfg.CatalogURL != "" {
		return catalog.NewHTTPFetcher(cfg.CatalogURL, func(o *catalog.HTTPFetcherOptions) {
			o.Timeout = cfg.CatalogTimeout
		})
	}
	return catalog.StaticFetcher(catalog.DemoCatalog())
}
