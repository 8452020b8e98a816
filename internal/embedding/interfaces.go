package embedding

import "context"

// Provider interface for sentence-embedding backends. Embed must preserve
// input order: result[i] is the vector for texts[i]. Implementations are
// expected to be safe for concurrent use so independent scoring requests can
// share one provider without locking.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the embedding model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
