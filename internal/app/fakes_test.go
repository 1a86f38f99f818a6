package app

import (
	"context"
	"errors"
	"io"
	"strings"

	"pdfchat/internal/model"
)

// Fakes for the external collaborators so service tests run without
// network access.

type fakeEmbedder struct {
	embedErr error
	batchErr error

	embedCalls int
	batches    [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	return out, nil
}

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

type fakeGenerator struct {
	response string // when empty, the prompt is echoed back
	err      error

	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if f.response != "" {
		return f.response, nil
	}
	return prompt, nil
}

type indexEntry struct {
	chunk  model.Chunk
	vector []float32
}

type fakeIndex struct {
	upsertErr error
	searchErr error

	entries []indexEntry
}

func (f *fakeIndex) Upsert(_ context.Context, chunks []model.Chunk, vectors [][]float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	for i := range chunks {
		f.entries = append(f.entries, indexEntry{chunk: chunks[i], vector: vectors[i]})
	}
	return nil
}

// Search returns stored chunks for the document in insertion order, capped
// at topK. Similarity ranking is irrelevant to the contracts under test;
// the documentID filter is what matters.
func (f *fakeIndex) Search(_ context.Context, _ []float32, documentID string, topK int) ([]model.ScoredChunk, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []model.ScoredChunk
	for _, e := range f.entries {
		if e.chunk.DocumentID != documentID {
			continue
		}
		out = append(out, model.ScoredChunk{Chunk: e.chunk, Score: 1})
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

func failingExtractor(err error) PageExtractor {
	return func(io.Reader) ([]string, error) { return nil, err }
}

func staticExtractor(pages ...string) PageExtractor {
	return func(io.Reader) ([]string, error) { return pages, nil }
}

func readerOf(s string) io.Reader { return strings.NewReader(s) }
