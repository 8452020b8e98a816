package embedding

import (
	"context"
	"fmt"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
)

// Service handles embedding operations for resume screening
type Service struct {
	Provider Provider // Exported for access from server package
	config   *config.EmbeddingConfig
	logger   *errors.Logger
}

// NewService creates a new embedding service. The provider is constructed
// once and reused for every scoring request; model loading is expensive and
// must not be repeated per request.
func NewService(cfg *config.EmbeddingConfig, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing embedding service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"similarity_threshold", cfg.SimilarityThreshold)

	var provider Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported embedding provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingFailed,
			"Failed to create embedding provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// NewServiceWithProvider wraps an already-constructed provider. Callers that
// bring their own backend (or a test double) use this instead of NewService.
func NewServiceWithProvider(provider Provider, cfg *config.EmbeddingConfig, logger *errors.Logger) *Service {
	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// Similarity embeds both texts in one batched call and returns their cosine
// similarity.
func (s *Service) Similarity(ctx context.Context, a, b string) (float64, error) {
	vectors, err := s.Provider.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1]), nil
}

// Threshold returns the configured classification threshold.
func (s *Service) Threshold() float64 {
	return s.config.SimilarityThreshold
}

// GetModelInfo returns information about the embedding model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases provider resources.
func (s *Service) Close() error {
	return s.Provider.Close()
}
