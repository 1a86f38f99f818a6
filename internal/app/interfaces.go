package app

import (
	"context"
	"io"

	"pdfchat/internal/model"
)

// The services depend on their external collaborators through these
// interfaces so tests can substitute fakes without network access. The
// production implementations live in internal/ai, internal/platform/qdrant
// and internal/pkg/pdfextract.

// Embedder converts text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a single prompt, one turn, no streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex persists chunk vectors and supports similarity search scoped
// to one document.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []model.Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, documentID string, topK int) ([]model.ScoredChunk, error)
}

// PageExtractor parses a binary PDF into ordered per-page texts.
type PageExtractor func(r io.Reader) ([]string, error)
