package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pdfchat/internal/model"
)

// Client is a minimal REST client for one Qdrant collection. It assumes
// cosine distance and creates the collection if missing.
type Client struct {
	url        string
	apiKey     string
	collection string
	httpClient *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection with the given vector size if it
// does not exist yet. Qdrant answers 200 for an existing collection with the
// same schema, so this is safe to call on every startup.
func (c *Client) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid vector dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", c.collection), body)
	return err
}

// Upsert stores one point per chunk, carrying the chunk text and its
// document ID in the payload. Point IDs are freshly minted UUIDs; chunks are
// never updated in place.
func (c *Client) Upsert(ctx context.Context, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     uuid.NewString(),
			"vector": vectors[i],
			"payload": map[string]any{
				"document_id": chunks[i].DocumentID,
				"chunk_index": chunks[i].Index,
				"text":        chunks[i].PageContent,
			},
		}
	}
	body := map[string]any{"points": points}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", c.collection), body)
	return err
}

// Search returns the topK most similar chunks whose payload document_id
// matches documentID exactly. Chunks of other documents never pass the
// filter.
func (c *Client) Search(ctx context.Context, vector []float32, documentID string, topK int) ([]model.ScoredChunk, error) {
	if topK <= 0 {
		topK = 4
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", c.collection), body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse qdrant search response failed: %w", err)
	}

	results := make([]model.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := model.Chunk{}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.PageContent = v
		}
		results = append(results, model.ScoredChunk{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal qdrant request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build qdrant request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read qdrant response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant %s %s status %d: %s", method, path, resp.StatusCode, string(raw))
	}
	return raw, nil
}
