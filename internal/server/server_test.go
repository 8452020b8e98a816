package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/observability"
	"resumescreen/internal/screening"
	"resumescreen/internal/skills"
	"resumescreen/internal/types"
)

// staticProvider returns one fixed vector per input text, cycling through the
// configured list.
type staticProvider struct {
	vectors [][]float32
}

func (p *staticProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = p.vectors[i%len(p.vectors)]
	}
	return out, nil
}

func (p *staticProvider) GetModelInfo(ctx context.Context) *embedding.ModelInfo {
	return &embedding.ModelInfo{Name: "static", Available: true}
}

func (p *staticProvider) Close() error { return nil }

func newTestServer(t *testing.T, provider embedding.Provider, apiKeys []string) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Embedding.SimilarityThreshold = 0.05
	cfg.Observability.HealthCheck.Timeout = time.Second

	logger := errors.NewLogger(slog.LevelError)
	embeddings := embedding.NewServiceWithProvider(provider, &cfg.Embedding, logger)
	vocab := skills.NewDefaultVocabulary()
	vocab.Replace([]string{"python", "sql"})

	keyMap := make(map[string]bool)
	for _, key := range apiKeys {
		keyMap[key] = true
	}

	srv := &Server{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		AppConfig:      cfg,
		APIKeys:        keyMap,
		MaxRequestSize: 1 << 20,
		Engine:         screening.NewEngine(vocab, embeddings, logger),
		Embeddings:     embeddings,
		Vocabulary:     vocab,
		Logger:         logger,
	}

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to create observability manager: %v", err)
	}

	return srv, om
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCompareHandler(t *testing.T) {
	provider := &staticProvider{vectors: [][]float32{
		{1, 0}, // resume1
		{0, 1}, // resume2
		{1, 0}, // job description
	}}
	srv, om := newTestServer(t, provider, nil)

	rec := postJSON(t, srv.createCompareHandler(om), CompareRequest{
		JobDescription: "Looking for python and sql experience",
		Resume1:        "Built services in python with sql databases",
		Resume2:        "Managed a retail store",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result types.ComparisonResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if result.Winner != types.WinnerResume1 {
		t.Errorf("Winner = %d, want %d", result.Winner, types.WinnerResume1)
	}
	if result.Resume1.Similarity <= result.Resume2.Similarity {
		t.Errorf("similarity ordering wrong: %f <= %f",
			result.Resume1.Similarity, result.Resume2.Similarity)
	}
}

func TestCompareHandlerValidation(t *testing.T) {
	srv, om := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)
	handler := srv.createCompareHandler(om)

	tests := []struct {
		name string
		req  CompareRequest
	}{
		{"missing job description", CompareRequest{Resume1: "a", Resume2: "b"}},
		{"missing first resume", CompareRequest{JobDescription: "jd", Resume2: "b"}},
		{"missing second resume", CompareRequest{JobDescription: "jd", Resume1: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCompareHandlerRejectsNonJSON(t *testing.T) {
	srv, om := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("plain")))
	rec := httptest.NewRecorder()
	srv.createCompareHandler(om)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEvaluateHandler(t *testing.T) {
	provider := &staticProvider{vectors: [][]float32{{1, 0}, {1, 0}}}
	srv, om := newTestServer(t, provider, nil)

	rec := postJSON(t, srv.createEvaluateHandler(om), EvaluateRequest{
		Samples: []types.LabeledSample{
			{ResumeText: "python developer", JobDescription: "python role", Label: 1},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var metrics types.EvaluationMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if metrics.Samples != 1 {
		t.Errorf("Samples = %d, want 1", metrics.Samples)
	}
	if metrics.Accuracy != 1.0 {
		t.Errorf("Accuracy = %f, want 1.0", metrics.Accuracy)
	}
}

func TestEvaluateHandlerMissingSamples(t *testing.T) {
	srv, om := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)

	rec := postJSON(t, srv.createEvaluateHandler(om), map[string]any{"debug": true})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, []string{"secret-key-12345"})

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		setHeader  func(*http.Request)
		wantStatus int
	}{
		{
			name:       "missing key",
			setHeader:  func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid key",
			setHeader:  func(r *http.Request) { r.Header.Set("X-API-Key", "wrong") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid key via header",
			setHeader:  func(r *http.Request) { r.Header.Set("X-API-Key", "secret-key-12345") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key via bearer token",
			setHeader:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret-key-12345") },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/compare", nil)
			tt.setHeader(req)
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	srv, _ := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/compare", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "resumescreen" {
		t.Errorf("service = %v", response["service"])
	}
}

func TestStatsHandler(t *testing.T) {
	srv, _ := newTestServer(t, &staticProvider{vectors: [][]float32{{1, 0}}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	srv.statsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if _, ok := response["screening"]; !ok {
		t.Error("stats response missing screening section")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abc", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestGetRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/compare", nil)
	req.Header.Set("X-API-Key", "abc")
	req.RemoteAddr = "203.0.113.9:1234"

	if got := getRateLimitKey(req, true, true); got != "api:abc" {
		t.Errorf("key = %q, want api:abc", got)
	}

	req.Header.Del("X-API-Key")
	if got := getRateLimitKey(req, true, true); got != "ip:203.0.113.9" {
		t.Errorf("key = %q, want ip:203.0.113.9", got)
	}

	if got := getRateLimitKey(req, false, false); got != "" {
		t.Errorf("key = %q, want empty", got)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"

	if got := getClientIP(req); got != "192.0.2.1" {
		t.Errorf("ip = %q, want 192.0.2.1", got)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 192.0.2.1")
	if got := getClientIP(req); got != "198.51.100.7" {
		t.Errorf("ip = %q, want 198.51.100.7", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	limiter := NewRateLimiter(60, 2, logger)
	defer limiter.Close()

	// Burst capacity allows the first two requests immediately
	if !limiter.Allow("client") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("client") {
		t.Error("second request should be allowed")
	}
	if limiter.Allow("client") {
		t.Error("third request should be rate limited")
	}

	// Other clients get their own bucket
	if !limiter.Allow("other") {
		t.Error("different key should not share a bucket")
	}
}
