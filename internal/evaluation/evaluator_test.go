package evaluation

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// vectorProvider returns a canned vector per exact text, defaulting to the
// unit x-axis vector. Pairing any text with the default gives a similarity
// equal to the first component of its vector.
type vectorProvider struct {
	vectors map[string][]float32
}

func (p *vectorProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := p.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (p *vectorProvider) GetModelInfo(context.Context) *embedding.ModelInfo {
	return &embedding.ModelInfo{Name: "fake", Available: true}
}

func (p *vectorProvider) Close() error { return nil }

// withSimilarity maps a text to a vector whose cosine against the default
// (1, 0) vector equals sim
func withSimilarity(vectors map[string][]float32, text string, sim float64) {
	vectors[text] = []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))}
}

func newTestEvaluator(provider embedding.Provider, debug bool) *Evaluator {
	cfg := &config.EmbeddingConfig{Provider: "fake", SimilarityThreshold: 0.05}
	logger := errors.NewLogger(slog.LevelError)
	return NewEvaluator(embedding.NewServiceWithProvider(provider, cfg, logger), logger, debug)
}

func TestEvaluateMetrics(t *testing.T) {
	vectors := map[string][]float32{}
	withSimilarity(vectors, "resume a", 0.9)
	withSimilarity(vectors, "resume b", 0.04)
	withSimilarity(vectors, "resume c", 0.02)
	withSimilarity(vectors, "resume d", 0.9)

	samples := []types.LabeledSample{
		{ResumeText: "resume a", JobDescription: "jd", Label: 1},
		{ResumeText: "resume b", JobDescription: "jd", Label: 1},
		{ResumeText: "resume c", JobDescription: "jd", Label: 0},
		{ResumeText: "resume d", JobDescription: "jd", Label: 0},
	}

	evaluator := newTestEvaluator(&vectorProvider{vectors: vectors}, false)
	metrics, err := evaluator.Evaluate(context.Background(), samples, 0.05)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if metrics.Samples != 4 {
		t.Errorf("Samples = %d, want 4", metrics.Samples)
	}
	for name, got := range map[string]float64{
		"accuracy":  metrics.Accuracy,
		"precision": metrics.Precision,
		"recall":    metrics.Recall,
		"f1":        metrics.F1,
	} {
		if math.Abs(got-0.5) > 1e-9 {
			t.Errorf("%s = %v, want 0.5", name, got)
		}
	}
}

func TestEvaluateEmptyDataset(t *testing.T) {
	evaluator := newTestEvaluator(&vectorProvider{}, false)

	metrics, err := evaluator.Evaluate(context.Background(), nil, 0.05)
	if err != nil {
		t.Fatalf("Evaluate failed on empty dataset: %v", err)
	}
	if metrics.Samples != 0 || metrics.Accuracy != 0 || metrics.Precision != 0 ||
		metrics.Recall != 0 || metrics.F1 != 0 {
		t.Errorf("empty dataset metrics = %+v, want all zero", metrics)
	}
	if metrics.Threshold != 0.05 {
		t.Errorf("Threshold = %v, want 0.05", metrics.Threshold)
	}
}

func TestEvaluatePerfectClassifier(t *testing.T) {
	vectors := map[string][]float32{}
	withSimilarity(vectors, "match", 0.8)
	withSimilarity(vectors, "mismatch", 0.01)

	samples := []types.LabeledSample{
		{ResumeText: "match", JobDescription: "jd", Label: 1},
		{ResumeText: "mismatch", JobDescription: "jd", Label: 0},
	}

	evaluator := newTestEvaluator(&vectorProvider{vectors: vectors}, false)
	metrics, err := evaluator.Evaluate(context.Background(), samples, 0.05)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if metrics.Accuracy != 1 || metrics.Precision != 1 || metrics.Recall != 1 || metrics.F1 != 1 {
		t.Errorf("metrics = %+v, want all 1", metrics)
	}
}

func TestEvaluateNoPositivePredictions(t *testing.T) {
	vectors := map[string][]float32{}
	withSimilarity(vectors, "low a", 0.01)
	withSimilarity(vectors, "low b", 0.02)

	samples := []types.LabeledSample{
		{ResumeText: "low a", JobDescription: "jd", Label: 0},
		{ResumeText: "low b", JobDescription: "jd", Label: 0},
	}

	evaluator := newTestEvaluator(&vectorProvider{vectors: vectors}, false)
	metrics, err := evaluator.Evaluate(context.Background(), samples, 0.05)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// No positives anywhere: precision, recall and F1 degrade to 0 without
	// dividing by zero, while accuracy is still perfect.
	if metrics.Accuracy != 1 {
		t.Errorf("Accuracy = %v, want 1", metrics.Accuracy)
	}
	if metrics.Precision != 0 || metrics.Recall != 0 || metrics.F1 != 0 {
		t.Errorf("metrics = %+v, want zero precision/recall/f1", metrics)
	}
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.json")
	content := `[
  {"resume_text": "python developer", "job_description": "python role", "label": 1},
  {"resume_text": "chef", "job_description": "python role", "label": 0}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].ResumeText != "python developer" || samples[0].Label != 1 {
		t.Errorf("samples[0] = %+v", samples[0])
	}
	if samples[1].Label != 0 {
		t.Errorf("samples[1].Label = %d, want 0", samples[1].Label)
	}
}

func TestLoadSamplesMissingFile(t *testing.T) {
	_, err := LoadSamples(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeDatasetNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, errors.ErrCodeDatasetNotFound)
	}
}

func TestLoadSamplesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSamples(path)
	if err == nil {
		t.Fatal("expected error for malformed dataset")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeDatasetMalformed {
		t.Errorf("Code = %s, want %s", appErr.Code, errors.ErrCodeDatasetMalformed)
	}
}
