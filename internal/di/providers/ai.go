package providers

import (
	"github.com/samber/do/v2"

	"github.com/24061269-star/um-lost-and-found/internal/ai"
	"github.com/24061269-star/um-lost-and-found/internal/config"
	"github.com/24061269-star/um-lost-and-found/internal/logger"
)

// ProvideModelClient provides the OpenAI-compatible model client.
func ProvideModelClient(i do.Injector) (*ai.OpenAIClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.AI.APIKey == "" {
		log.Warn("No model API key configured; enrichment and semantic search will fail until one is set")
	}

	return ai.NewOpenAIClient(cfg.AI, log.Logger), nil
}
