package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Embedding Configuration
	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.apiKey", "")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("embedding.maxRetries", 3)
	v.SetDefault("embedding.similarityThreshold", 0.05)
	v.SetDefault("embedding.maxTextLength", 8192)

	// Circuit Breaker Configuration defaults
	v.SetDefault("embedding.circuitBreaker.enabled", true)
	v.SetDefault("embedding.circuitBreaker.maxRequests", 3)
	v.SetDefault("embedding.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("embedding.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("embedding.circuitBreaker.minRequests", 3)
	v.SetDefault("embedding.circuitBreaker.failureThreshold", 0.6)

	// Skills Configuration
	v.SetDefault("skills.vocabularyFile", "")
	v.SetDefault("skills.watch", false)
	v.SetDefault("skills.debounceDelay", time.Second)

	// Dataset Configuration
	v.SetDefault("dataset.resumeColumn", "Resume_str")
	v.SetDefault("dataset.jdColumn", "Job Description")
	v.SetDefault("dataset.minTextLength", 100)
	v.SetDefault("dataset.maxRows", 100)
	v.SetDefault("dataset.maxPairs", 50)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// TLS Configuration defaults (disabled when empty)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown", "report"})
	v.SetDefault("app.maxFileSize", 1024*1024)      // 1MB
	v.SetDefault("app.maxRequestSize", 2*1024*1024) // 2MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.apiKeys", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumescreen")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.modelCheckTimeout", 10*time.Second)
}
