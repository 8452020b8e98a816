package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a health check endpoint including embedding model
// status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumescreen",
		"version": s.Version,
	}

	modelInfo := s.checkEmbeddingModelHealth()
	response["embedding_model"] = modelInfo

	response["circuit_breaker"] = s.checkCircuitBreakerHealth()

	response["vocabulary"] = map[string]any{
		"terms":    s.Vocabulary.Len(),
		"watching": s.vocabWatcher != nil,
	}

	if !modelInfo.Available {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// healthModelInfo is the embedding model section of the health response
type healthModelInfo struct {
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// checkEmbeddingModelHealth probes the embedding backend within the
// configured health check timeout
func (s *Server) checkEmbeddingModelHealth() healthModelInfo {
	ctx, cancel := context.WithTimeout(context.Background(), s.getHealthCheckTimeout())
	defer cancel()

	info := s.Embeddings.Provider.GetModelInfo(ctx)
	if info == nil {
		return healthModelInfo{
			Available: false,
			Error:     "embedding provider returned no model info",
		}
	}

	return healthModelInfo{
		Name:      info.Name,
		Version:   info.Version,
		Available: info.Available,
		Error:     info.Error,
	}
}

// checkCircuitBreakerHealth reports circuit breaker configuration for the
// embedding backend
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	cb := s.AppConfig.Embedding.CircuitBreaker
	if !cb.Enabled {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"enabled":           true,
		"max_requests":      cb.MaxRequests,
		"timeout":           cb.Timeout.String(),
		"failure_threshold": cb.FailureThreshold,
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumescreen",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"screening": map[string]any{
			"vocabulary_terms":     s.Vocabulary.Len(),
			"similarity_threshold": s.Embeddings.Threshold(),
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
