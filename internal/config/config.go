package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMESCREEN_EMBEDDING_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	Skills        SkillsConfig        `mapstructure:"skills"`
	Dataset       DatasetConfig       `mapstructure:"dataset"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EmbeddingConfig holds embedding backend configuration
type EmbeddingConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"apiKey"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"maxRetries"`

	// SimilarityThreshold separates match from non-match. The 0.05 default is
	// unusually low for normalized sentence embeddings; it is a tunable that
	// should be calibrated against a larger labeled set, not a constant.
	SimilarityThreshold float64 `mapstructure:"similarityThreshold"`

	// MaxTextLength caps each embedded text to bound request latency.
	MaxTextLength int `mapstructure:"maxTextLength"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// SkillsConfig holds skill vocabulary configuration
type SkillsConfig struct {
	VocabularyFile string        `mapstructure:"vocabularyFile"` // Optional override of the built-in vocabulary
	Watch          bool          `mapstructure:"watch"`          // Hot-reload the vocabulary file on change
	DebounceDelay  time.Duration `mapstructure:"debounceDelay"`  // Debounce delay for file change events
}

// DatasetConfig holds dataset builder and evaluation configuration
type DatasetConfig struct {
	ResumeColumn  string `mapstructure:"resumeColumn"`  // Resume text column in the resumes CSV
	JDColumn      string `mapstructure:"jdColumn"`      // Job description column in the JD CSV
	MinTextLength int    `mapstructure:"minTextLength"` // Rows at or below this length are treated as noise
	MaxRows       int    `mapstructure:"maxRows"`       // Per-source row cap before pairing
	MaxPairs      int    `mapstructure:"maxPairs"`      // Upper bound on produced pairs
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// TLS termination (static cert/key files; disabled when empty)
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds static TLS configuration
type TLSConfig struct {
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	MaxRequestSize   int64    `mapstructure:"maxRequestSize"`
}

// VaultConfig holds HashiCorp Vault configuration
type VaultConfig struct {
	Enabled   bool               `mapstructure:"enabled"`
	Address   string             `mapstructure:"address"`
	Token     string             `mapstructure:"token"`
	TokenFile string             `mapstructure:"tokenFile"`
	Namespace string             `mapstructure:"namespace"`
	Secrets   VaultSecretsConfig `mapstructure:"secrets"`
}

// VaultSecretsConfig holds the KV v2 paths for individual secrets
type VaultSecretsConfig struct {
	GeminiKey string `mapstructure:"geminiKey"` // Path holding the embedding API key
	APIKeys   string `mapstructure:"apiKeys"`   // Path holding server API keys
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	ModelCheckTimeout time.Duration `mapstructure:"modelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMESCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumescreen/")
	v.AddConfigPath("$HOME/.resumescreen")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// With Vault enabled the key arrives after loading, via ApplyVaultSecrets
	if c.Embedding.APIKey == "" && !c.Vault.Enabled {
		return fmt.Errorf("embedding API key is required (set RESUMESCREEN_EMBEDDING_APIKEY environment variable)")
	}

	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding timeout must be positive")
	}

	if c.Embedding.SimilarityThreshold < -1.0 || c.Embedding.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity threshold must be within [-1, 1], got %v", c.Embedding.SimilarityThreshold)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("TLS requires both certFile and keyFile")
	}

	if c.Dataset.MaxPairs <= 0 {
		return fmt.Errorf("dataset maxPairs must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}
