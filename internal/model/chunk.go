package model

// Chunk is a bounded substring of a document's extracted text, the unit of
// embedding and retrieval. DocumentID scopes the chunk to exactly one
// uploaded document; retrieval always filters on it.
type Chunk struct {
	DocumentID  string `json:"documentId"`
	Index       int    `json:"index"`
	PageContent string `json:"pageContent"`
}

// ScoredChunk is a chunk returned from similarity search together with its
// relevance score. Order among equal scores is not guaranteed stable.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}
