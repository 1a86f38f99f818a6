package app

import (
	"context"
	"fmt"
	"strings"
)

const (
	answerTopK = 4

	// NoMatchAnswer is returned verbatim when retrieval finds nothing for
	// the document. The language model is not called in that case, so an
	// answer with no grounding context can never be hallucinated.
	NoMatchAnswer = "I don't know the answer to that question"

	answerPromptTemplate = `You are a helpful AI assistant. Using the following context from a document,
    please answer the user's question accurately and concisely. If the context doesn't contain
    relevant information to answer the question, please say so.

Context:
%s

Question: %s

    Answer:`
)

// AnswerService answers a question about one document: embed the question,
// retrieve the most similar chunks of that document, and condition a single
// language-model call on them.
type AnswerService struct {
	embedder  Embedder
	generator Generator
	index     VectorIndex
}

func NewAnswerService(embedder Embedder, generator Generator, index VectorIndex) *AnswerService {
	return &AnswerService{
		embedder:  embedder,
		generator: generator,
		index:     index,
	}
}

// Answer returns the generated answer text for the question, scoped to
// documentID. Returns ErrInvalidInput for a blank question or missing
// documentID.
func (s *AnswerService) Answer(ctx context.Context, question, documentID string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" || documentID == "" {
		return "", ErrInvalidInput
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question failed: %w", err)
	}

	results, err := s.index.Search(ctx, vector, documentID, answerTopK)
	if err != nil {
		return "", fmt.Errorf("search chunks failed: %w", err)
	}
	if len(results) == 0 {
		return NoMatchAnswer, nil
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.PageContent
	}
	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(texts, "\n"), question)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer failed: %w", err)
	}
	return answer, nil
}
