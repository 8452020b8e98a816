// Package server exposes the screening engine over HTTP with API key
// authentication, rate limiting and request size limits.
package server

import (
	"time"

	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	appErrors "resumescreen/internal/errors"
	"resumescreen/internal/screening"
	"resumescreen/internal/skills"
	"resumescreen/internal/types"
)

// CompareRequest is the request body for the compare endpoint
type CompareRequest struct {
	JobDescription string `json:"jobDescription"`
	Resume1        string `json:"resume1"`
	Resume2        string `json:"resume2"`
}

// EvaluateRequest is the request body for the evaluate endpoint. Samples are
// sent inline; Threshold overrides the configured classification threshold
// when set.
type EvaluateRequest struct {
	Samples   []types.LabeledSample `json:"samples"`
	Threshold *float64              `json:"threshold,omitempty"`
	Debug     bool                  `json:"debug,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and the shared screening components for the
// HTTP server. The engine and embedding service are built once and reused
// across requests.
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS termination (disabled when cert/key are empty)
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Screening components
	Engine     *screening.Engine
	Embeddings *embedding.Service
	Vocabulary *skills.Vocabulary

	vocabWatcher *skills.VocabularyWatcher

	// Logger
	Logger *appErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance. The skill vocabulary and the
// embedding provider are initialized here so that a failing backend is
// reported at startup instead of on the first request.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *appErrors.Logger) (*Server, error) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	vocab, err := loadVocabulary(&appCfg.Skills)
	if err != nil {
		return nil, err
	}

	embeddings, err := embedding.NewService(&appCfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Engine:         screening.NewEngine(vocab, embeddings, logger),
		Embeddings:     embeddings,
		Vocabulary:     vocab,
		Logger:         logger,
	}, nil
}

// loadVocabulary returns the configured vocabulary, falling back to the
// built-in term list when no file override is set.
func loadVocabulary(cfg *config.SkillsConfig) (*skills.Vocabulary, error) {
	if cfg.VocabularyFile == "" {
		return skills.NewDefaultVocabulary(), nil
	}
	return skills.LoadVocabulary(cfg.VocabularyFile)
}
