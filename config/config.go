// Package config provides runtime configuration values for GreenMesh agents.
package config

import (
	"os"
	"strconv"
	"time"
)

// Provider selection values accepted by MODEL_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderFallback  = "fallback"
)

// Config holds configuration knobs for the agents, the model provider and the
// A2A transport. Provider and strategy selection live here so swapping them
// never touches capability code.
type Config struct {
	AdvisorAddr     string
	RecommenderAddr string
	RecommenderURL  string

	CatalogURL     string
	CatalogTimeout time.Duration

	ModelProvider  string
	OpenAIModel    string
	AnthropicModel string
	ModelTimeout   time.Duration

	A2ATimeout    time.Duration
	A2AMaxRetries int

	PromotionStrategy string
	RecommendLimit    int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		AdvisorAddr:     getenv("ADVISOR_ADDR", ":8080"),
		RecommenderAddr: getenv("RECOMMENDER_ADDR", ":5001"),
		RecommenderURL:  getenv("RECOMMENDER_URL", "http://localhost:5001"),

		CatalogURL:     getenv("CATALOG_URL", ""),
		CatalogTimeout: durenvms("CATALOG_TIMEOUT_MS", 10000),

		ModelProvider:  getenv("MODEL_PROVIDER", ProviderFallback),
		OpenAIModel:    getenv("OPENAI_MODEL", ""),
		AnthropicModel: getenv("ANTHROPIC_MODEL", ""),
		ModelTimeout:   durenvms("MODEL_TIMEOUT_MS", 15000),

		A2ATimeout:    durenvms("A2A_TIMEOUT_MS", 30000),
		A2AMaxRetries: atoienv("A2A_MAX_RETRIES", 3),

		PromotionStrategy: getenv("PROMOTION_STRATEGY", "sustainability_focused"),
		RecommendLimit:    atoienv("RECOMMEND_LIMIT", 3),
	}
}
