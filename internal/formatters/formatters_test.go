package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumescreen/internal/types"
)

func sampleResult() types.ComparisonResult {
	return types.ComparisonResult{
		JobSkills: []string{"go", "sql"},
		Resume1: types.ResumeMatch{
			KeywordScore:  1.0,
			MatchedSkills: []string{"go", "sql"},
			MissingSkills: []string{},
			Similarity:    0.81,
			IsMatch:       true,
		},
		Resume2: types.ResumeMatch{
			KeywordScore:  0.5,
			MatchedSkills: []string{"sql"},
			MissingSkills: []string{"go"},
			Similarity:    0.12,
			IsMatch:       true,
		},
		Winner:  types.WinnerResume1,
		Summary: "Resume 1 has better skill alignment (100%).",
		Recommendations: []string{
			"Resume 1: All key job skills are covered.",
			"Resume 2: Consider adding these missing skills: go.",
			"Resume 1 is a better match based on skills and similarity.",
		},
		Threshold: 0.05,
	}
}

func TestFormatComparisonResult(t *testing.T) {
	registry := NewFormatterRegistry()
	result := sampleResult()

	tests := []struct {
		format   string
		contains []string
	}{
		{
			format: "text",
			contains: []string{
				"=== RESUME COMPARISON ===",
				"Match Score: 100.0%",
				"Missing Skills: None",
				"Missing Skills: go",
				"Resume 1 has better skill alignment (100%).",
			},
		},
		{
			format: "markdown",
			contains: []string{
				"# Resume Comparison",
				"## Resume 1",
				"**Match Score:** 50.0%",
				"## Recommendations",
			},
		},
		{
			format: "report",
			contains: []string{
				"Resume Screening Report",
				"Resume 1 Match: 100.0%",
				"Resume 2 Match: 50.0%",
				"Summary:",
				"Recommendations:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			output, err := registry.Format(result, tt.format)
			if err != nil {
				t.Fatalf("Format(%s) failed: %v", tt.format, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("%s output missing %q", tt.format, want)
				}
			}
		})
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format(json) failed: %v", err)
	}

	var decoded types.ComparisonResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if decoded.Winner != types.WinnerResume1 {
		t.Errorf("Winner = %d after round trip, want %d", decoded.Winner, types.WinnerResume1)
	}
}

func TestFormatEvaluationMetrics(t *testing.T) {
	registry := NewFormatterRegistry()
	metrics := types.EvaluationMetrics{
		Samples:   4,
		Threshold: 0.05,
		Accuracy:  0.5,
		Precision: 0.5,
		Recall:    0.5,
		F1:        0.5,
	}

	output, err := registry.Format(metrics, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"Samples:   4", "Threshold: 0.05", "F1 Score:  0.50"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFormatMetricsReportFallsBackToError(t *testing.T) {
	registry := NewFormatterRegistry()

	// "report" is only defined for comparison results and has no generic
	// fallback registered
	if _, err := registry.Format(types.EvaluationMetrics{}, "report"); err == nil {
		t.Fatal("expected error for report format on metrics")
	}
}
