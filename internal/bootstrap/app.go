package bootstrap

import (
	"context"
	"fmt"
	"time"

	"pdfchat/internal/ai"
	"pdfchat/internal/config"
	"pdfchat/internal/platform/qdrant"
)

// App wires configuration and the external service clients together. The
// HTTP layer builds its services from these handles, so tests can build the
// same services around fakes instead.
type App struct {
	Config *config.Config
	AI     *ai.Client
	Index  *qdrant.Client

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})

	index := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
	})

	ensureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := index.EnsureCollection(ensureCtx, cfg.Qdrant.VectorSize); err != nil {
		return nil, fmt.Errorf("ensure qdrant collection failed: %w", err)
	}

	return &App{
		Config:    cfg,
		AI:        aiClient,
		Index:     index,
		StartedAt: time.Now(),
	}, nil
}
