package embedding

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumescreen/internal/config"
	appErrors "resumescreen/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for the Gemini embedding API. The client
// is created once per process; model inference is stateless, so one provider
// serves all scoring requests without additional locking.
type GeminiProvider struct {
	client         *genai.Client
	config         *config.EmbeddingConfig
	circuitBreaker *EmbedCircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *appErrors.Logger
}

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini embedding provider instance
func NewGeminiProvider(cfg *config.EmbeddingConfig, logger *appErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, appErrors.NewEmbeddingError(appErrors.ErrCodeEmbeddingFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		circuitBreaker: NewEmbedCircuitBreaker(cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(cfg, logger),
		logger:         logger,
	}, nil
}

// Embed encodes texts into fixed-length dense vectors in one batched call,
// preserving input order. Texts longer than the configured cap are truncated
// to bound request latency.
func (g *GeminiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeEmptyInput,
			"No texts provided for embedding", nil)
	}

	tracer := otel.Tracer("resumescreen.embedding.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()

	span.SetAttributes(
		attribute.String("embedding.provider", "gemini"),
		attribute.String("embedding.model", g.config.Model),
		attribute.Int("embedding.batch_size", len(texts)),
	)

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		if g.config.MaxTextLength > 0 && len(t) > g.config.MaxTextLength {
			t = t[:g.config.MaxTextLength]
		}
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	result, err := g.circuitBreaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return g.executeWithRetry(timeoutCtx, func() (*genai.EmbedContentResponse, error) {
			return g.client.Models.EmbedContent(timeoutCtx, g.config.Model, contents, nil)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, appErrors.NewEmbeddingError(appErrors.ErrCodeEmbeddingFailed,
			"Failed to embed texts", err)
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		span.SetAttributes(attribute.Bool("success", false))
		return nil, appErrors.NewEmbeddingError(appErrors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("Embedding count mismatch: sent %d texts, received %d vectors", len(texts), got), nil)
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("embedding.dimensions", len(vectors[0])),
	)
	return vectors, nil
}

// executeWithRetry executes an embedding call with exponential backoff and jitter
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func() (*genai.EmbedContentResponse, error)) (*genai.EmbedContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying embedding request",
				"attempt", attempt,
				"max_retries", g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("Embedding request succeeded after retry",
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "Embedding request failed after all retry attempts",
		"total_attempts", g.config.MaxRetries+1)

	return nil, fmt.Errorf("embedding failed after %d retries: %w", g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection refused) are worth retrying
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Google API errors: retry on throttling and server-side failures
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"embed_operations": g.circuitBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy(),
	}
}

// Close implements the Provider interface. The genai client holds no
// long-lived connections in single-shot embedding usage.
func (g *GeminiProvider) Close() error {
	return nil
}
