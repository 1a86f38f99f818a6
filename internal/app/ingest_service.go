package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfchat/internal/model"
)

const (
	// Chunk sizing is fixed: 1000-character chunks stepping by 800, so
	// consecutive chunks share exactly 200 characters. Retrieval
	// granularity and embedding-model context limits both depend on it.
	chunkSize    = 1000
	chunkOverlap = 200

	// Embedding providers commonly cap array input size.
	embeddingBatchSize = 10

	summaryPromptPrefix = "Summarize the following document: "
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoText       = errors.New("pdf contains no extractable text")
)

// IngestService runs the upload pipeline: parse the PDF, chunk its text,
// summarize the opening excerpt, embed every chunk and store the vectors
// under a freshly minted document ID.
type IngestService struct {
	extract   PageExtractor
	embedder  Embedder
	generator Generator
	index     VectorIndex
}

func NewIngestService(extract PageExtractor, embedder Embedder, generator Generator, index VectorIndex) *IngestService {
	return &IngestService{
		extract:   extract,
		embedder:  embedder,
		generator: generator,
		index:     index,
	}
}

// IngestInput is one uploaded file.
type IngestInput struct {
	Filename string
	Size     int64
	File     io.Reader
}

// Ingest processes the upload and returns the resulting document. A failure
// partway through does not roll back chunks already stored in the index;
// those points stay orphaned under a document ID the caller never learns.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*model.Document, error) {
	if input.File == nil {
		return nil, ErrInvalidInput
	}

	pages, err := s.extract(input.File)
	if err != nil {
		return nil, fmt.Errorf("parse pdf failed: %w", err)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return nil, ErrNoText
	}

	documentID := uuid.NewString()

	parts := chunkText(text, chunkSize, chunkOverlap)
	chunks := make([]model.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = model.Chunk{
			DocumentID:  documentID,
			Index:       i,
			PageContent: part,
		}
	}

	// The summary deliberately covers only the first chunk; it reflects
	// the opening excerpt, not the whole document.
	summary, err := s.generator.Generate(ctx, summaryPromptPrefix+chunks[0].PageContent)
	if err != nil {
		return nil, fmt.Errorf("summarize document failed: %w", err)
	}

	vectors := make([][]float32, 0, len(parts))
	for i := 0; i < len(parts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(parts) {
			end = len(parts)
		}
		batch, err := s.embedder.EmbedBatch(ctx, parts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks failed: %w", err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(chunks) {
		return nil, errors.New("embedding count mismatch")
	}

	if err := s.index.Upsert(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("store chunks failed: %w", err)
	}

	return &model.Document{
		ID:         documentID,
		Filename:   input.Filename,
		UploadedAt: time.Now(),
		Summary:    summary,
		PageCount:  len(pages),
		FileSize:   input.Size,
	}, nil
}

// chunkText splits text into overlapping chunks by rune count. Every chunk
// except possibly the last is exactly size runes long, consecutive chunks
// overlap by exactly overlap runes, and the union covers the whole text.
func chunkText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := size - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
