package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.AdvisorAddr)
	assert.Equal(t, ProviderFallback, cfg.ModelProvider)
	assert.Equal(t, 30*time.Second, cfg.A2ATimeout)
	assert.Equal(t, 3, cfg.A2AMaxRetries)
	assert.Equal(t, "sustainability_focused", cfg.PromotionStrategy)
	assert.Equal(t, 3, cfg.RecommendLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", ProviderOpenAI)
	t.Setenv("A2A_MAX_RETRIES", "5")
	t.Setenv("MODEL_TIMEOUT_MS", "2500")
	t.Setenv("CATALOG_URL", "http://catalog:3550")

	cfg := Load()

	assert.Equal(t, ProviderOpenAI, cfg.ModelProvider)
	assert.Equal(t, 5, cfg.A2AMaxRetries)
	assert.Equal(t, 2500*time.Millisecond, cfg.ModelTimeout)
	assert.Equal(t, "http://catalog:3550", cfg.CatalogURL)
}

func TestLoad_MalformedNumbersKeepDefaults(t *testing.T) {
	t.Setenv("A2A_MAX_RETRIES", "many")
	t.Setenv("RECOMMEND_LIMIT", "")

	cfg := Load()

	assert.Equal(t, 3, cfg.A2AMaxRetries)
	assert.Equal(t, 3, cfg.RecommendLimit)
}
