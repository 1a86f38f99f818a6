package app

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		if got := chunkText("", chunkSize, chunkOverlap); got != nil {
			t.Errorf("expected nil for empty text, got %d chunks", len(got))
		}
	})

	t.Run("text shorter than chunk size", func(t *testing.T) {
		text := strings.Repeat("a", 500)
		got := chunkText(text, chunkSize, chunkOverlap)
		if len(got) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(got))
		}
		if got[0] != text {
			t.Error("single chunk must equal the whole text")
		}
	})

	t.Run("text exactly chunk size", func(t *testing.T) {
		got := chunkText(strings.Repeat("a", 1000), chunkSize, chunkOverlap)
		if len(got) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(got))
		}
	})

	t.Run("overlap and coverage invariants", func(t *testing.T) {
		// Distinct runes so overlaps can be verified by content.
		var b strings.Builder
		for i := 0; i < 3571; i++ {
			b.WriteRune(rune('а' + i%30))
		}
		text := b.String()

		chunks := chunkText(text, chunkSize, chunkOverlap)
		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks, got %d", len(chunks))
		}

		for i, c := range chunks[:len(chunks)-1] {
			if n := len([]rune(c)); n != chunkSize {
				t.Errorf("chunk %d: expected %d runes, got %d", i, chunkSize, n)
			}
		}

		for i := 1; i < len(chunks); i++ {
			prev := []rune(chunks[i-1])
			cur := []rune(chunks[i])
			tail := string(prev[len(prev)-chunkOverlap:])
			head := string(cur[:chunkOverlap])
			if tail != head {
				t.Errorf("chunks %d and %d do not overlap by exactly %d runes", i-1, i, chunkOverlap)
			}
		}

		// Union of the chunks must reconstruct the source text.
		rebuilt := chunks[0]
		for _, c := range chunks[1:] {
			rebuilt += string([]rune(c)[chunkOverlap:])
		}
		if rebuilt != text {
			t.Error("chunks do not cover the full source text")
		}
	})
}

func TestIngestService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("successful pipeline", func(t *testing.T) {
		embedder := &fakeEmbedder{}
		generator := &fakeGenerator{response: "a short summary"}
		index := &fakeIndex{}
		svc := NewIngestService(staticExtractor("page one", "page two", "page three"), embedder, generator, index)

		doc, err := svc.Ingest(ctx, IngestInput{Filename: "report.pdf", Size: 123, File: readerOf("%PDF")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ID == "" {
			t.Error("expected a generated document id")
		}
		if doc.PageCount != 3 {
			t.Errorf("expected pageCount 3, got %d", doc.PageCount)
		}
		if doc.Summary != "a short summary" {
			t.Errorf("unexpected summary %q", doc.Summary)
		}
		if doc.Filename != "report.pdf" || doc.FileSize != 123 {
			t.Error("document must carry the upload's filename and size")
		}
		if doc.UploadedAt.IsZero() {
			t.Error("uploadedAt must be set")
		}

		if len(index.entries) == 0 {
			t.Fatal("expected chunks stored in the index")
		}
		for _, e := range index.entries {
			if e.chunk.DocumentID != doc.ID {
				t.Errorf("chunk tagged with %q, want %q", e.chunk.DocumentID, doc.ID)
			}
		}

		if len(generator.prompts) != 1 {
			t.Fatalf("expected 1 summary call, got %d", len(generator.prompts))
		}
		if !strings.HasPrefix(generator.prompts[0], summaryPromptPrefix) {
			t.Error("summary prompt must start with the fixed prefix")
		}
		if !strings.Contains(generator.prompts[0], "page one") {
			t.Error("summary prompt must contain the first chunk's content")
		}
	})

	t.Run("embedding runs in batches", func(t *testing.T) {
		embedder := &fakeEmbedder{}
		index := &fakeIndex{}
		// 24 full chunks stepping by 800, plus a final partial one.
		text := strings.Repeat("x", 24*800+500)
		svc := NewIngestService(staticExtractor(text), embedder, &fakeGenerator{}, index)

		doc, err := svc.Ingest(ctx, IngestInput{Filename: "big.pdf", File: readerOf("%PDF")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(index.entries) != 25 {
			t.Fatalf("expected 25 chunks, got %d", len(index.entries))
		}
		if len(embedder.batches) != 3 {
			t.Errorf("expected 3 embedding batches of at most %d, got %d", embeddingBatchSize, len(embedder.batches))
		}
		for _, batch := range embedder.batches {
			if len(batch) > embeddingBatchSize {
				t.Errorf("batch of %d exceeds limit %d", len(batch), embeddingBatchSize)
			}
		}
		_ = doc
	})

	t.Run("nil file", func(t *testing.T) {
		svc := NewIngestService(staticExtractor("page"), &fakeEmbedder{}, &fakeGenerator{}, &fakeIndex{})
		if _, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf"}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unparseable pdf", func(t *testing.T) {
		parseErr := errors.New("malformed xref table")
		svc := NewIngestService(failingExtractor(parseErr), &fakeEmbedder{}, &fakeGenerator{}, &fakeIndex{})
		_, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf", File: readerOf("junk")})
		if err == nil || !errors.Is(err, parseErr) {
			t.Errorf("expected wrapped parse error, got %v", err)
		}
		if err != nil && err.Error() == "" {
			t.Error("error message must be non-empty")
		}
	})

	t.Run("no extractable text", func(t *testing.T) {
		svc := NewIngestService(staticExtractor("", "  ", "\n"), &fakeEmbedder{}, &fakeGenerator{}, &fakeIndex{})
		if _, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf", File: readerOf("%PDF")}); !errors.Is(err, ErrNoText) {
			t.Errorf("expected ErrNoText, got %v", err)
		}
	})

	t.Run("summary failure aborts before storage", func(t *testing.T) {
		index := &fakeIndex{}
		svc := NewIngestService(staticExtractor("page"), &fakeEmbedder{}, &fakeGenerator{err: errors.New("llm down")}, index)
		if _, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf", File: readerOf("%PDF")}); err == nil {
			t.Fatal("expected error")
		}
		if len(index.entries) != 0 {
			t.Error("nothing should be stored when summarization fails")
		}
	})

	t.Run("embedding failure surfaces", func(t *testing.T) {
		embedErr := errors.New("embeddings unavailable")
		svc := NewIngestService(staticExtractor("page"), &fakeEmbedder{batchErr: embedErr}, &fakeGenerator{}, &fakeIndex{})
		if _, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf", File: readerOf("%PDF")}); !errors.Is(err, embedErr) {
			t.Errorf("expected wrapped embed error, got %v", err)
		}
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		storeErr := errors.New("qdrant unreachable")
		svc := NewIngestService(staticExtractor("page"), &fakeEmbedder{}, &fakeGenerator{}, &fakeIndex{upsertErr: storeErr})
		if _, err := svc.Ingest(ctx, IngestInput{Filename: "x.pdf", File: readerOf("%PDF")}); !errors.Is(err, storeErr) {
			t.Errorf("expected wrapped store error, got %v", err)
		}
	})

	t.Run("fresh id per upload", func(t *testing.T) {
		index := &fakeIndex{}
		svc := NewIngestService(staticExtractor("page"), &fakeEmbedder{}, &fakeGenerator{}, index)
		a, err := svc.Ingest(ctx, IngestInput{Filename: "a.pdf", File: readerOf("%PDF")})
		if err != nil {
			t.Fatal(err)
		}
		b, err := svc.Ingest(ctx, IngestInput{Filename: "b.pdf", File: readerOf("%PDF")})
		if err != nil {
			t.Fatal(err)
		}
		if a.ID == b.ID {
			t.Error("each upload must mint a distinct document id")
		}
	})
}
