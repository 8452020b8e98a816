package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumescreen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ComparisonResult", &ComparisonTextFormatter{})
	registry.RegisterFormatter("markdown", "ComparisonResult", &ComparisonMarkdownFormatter{})
	registry.RegisterFormatter("report", "ComparisonResult", &ComparisonReportFormatter{})
	registry.RegisterFormatter("text", "EvaluationMetrics", &MetricsTextFormatter{})
	registry.RegisterFormatter("markdown", "EvaluationMetrics", &MetricsMarkdownFormatter{})
	registry.RegisterFormatter("text", "BuildDatasetOutput", &BuildDatasetTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ComparisonResult:
		return "ComparisonResult"
	case types.EvaluationMetrics:
		return "EvaluationMetrics"
	case types.BuildDatasetOutput:
		return "BuildDatasetOutput"
	default:
		return "any"
	}
}

// joinOrNone renders a skill list, substituting "None" for empty lists
func joinOrNone(skills []string) string {
	if len(skills) == 0 {
		return "None"
	}
	return strings.Join(skills, ", ")
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ComparisonTextFormatter handles text formatting for comparison results
type ComparisonTextFormatter struct{}

func (ctf *ComparisonTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ComparisonResult)
	if !ok {
		return "", fmt.Errorf("expected ComparisonResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME COMPARISON ===\n\n")
	output.WriteString("Job Description Skills: ")
	output.WriteString(joinOrNone(result.JobSkills))
	output.WriteString("\n\n")

	for i, match := range []types.ResumeMatch{result.Resume1, result.Resume2} {
		output.WriteString(fmt.Sprintf("=== RESUME %d ===\n", i+1))
		output.WriteString(fmt.Sprintf("Match Score: %.1f%%\n", match.KeywordScore*100))
		output.WriteString(fmt.Sprintf("Similarity: %.3f (match: %t)\n", match.Similarity, match.IsMatch))
		output.WriteString("Matched Skills: ")
		output.WriteString(joinOrNone(match.MatchedSkills))
		output.WriteString("\n")
		output.WriteString("Missing Skills: ")
		output.WriteString(joinOrNone(match.MissingSkills))
		output.WriteString("\n\n")
	}

	output.WriteString("=== SUMMARY ===\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("=== RECOMMENDATIONS ===\n")
	for i, recommendation := range result.Recommendations {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
	}

	return output.String(), nil
}

func (ctf *ComparisonTextFormatter) SupportedType() string {
	return "ComparisonResult"
}

// ComparisonMarkdownFormatter handles markdown formatting for comparison results
type ComparisonMarkdownFormatter struct{}

func (cmf *ComparisonMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ComparisonResult)
	if !ok {
		return "", fmt.Errorf("expected ComparisonResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Comparison\n\n")
	output.WriteString("**Job Description Skills:** ")
	output.WriteString(joinOrNone(result.JobSkills))
	output.WriteString("\n\n")

	for i, match := range []types.ResumeMatch{result.Resume1, result.Resume2} {
		output.WriteString(fmt.Sprintf("## Resume %d\n\n", i+1))
		output.WriteString(fmt.Sprintf("**Match Score:** %.1f%%\n\n", match.KeywordScore*100))
		output.WriteString(fmt.Sprintf("**Similarity:** %.3f (match: %t)\n\n", match.Similarity, match.IsMatch))
		output.WriteString("**Matched Skills:** ")
		output.WriteString(joinOrNone(match.MatchedSkills))
		output.WriteString("\n\n")
		output.WriteString("**Missing Skills:** ")
		output.WriteString(joinOrNone(match.MissingSkills))
		output.WriteString("\n\n")
	}

	output.WriteString("## Summary\n\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("## Recommendations\n\n")
	for i, recommendation := range result.Recommendations {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
	}

	return output.String(), nil
}

func (cmf *ComparisonMarkdownFormatter) SupportedType() string {
	return "ComparisonResult"
}

// ComparisonReportFormatter renders the downloadable plain-text report layout
type ComparisonReportFormatter struct{}

func (crf *ComparisonReportFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ComparisonResult)
	if !ok {
		return "", fmt.Errorf("expected ComparisonResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("Resume Screening Report\n\n")

	for i, match := range []types.ResumeMatch{result.Resume1, result.Resume2} {
		output.WriteString(fmt.Sprintf("Resume %d Match: %.1f%%\n", i+1, match.KeywordScore*100))
		output.WriteString("Matched Skills: ")
		output.WriteString(joinOrNone(match.MatchedSkills))
		output.WriteString("\n")
		output.WriteString("Missing Skills: ")
		output.WriteString(joinOrNone(match.MissingSkills))
		output.WriteString("\n\n")
	}

	output.WriteString("Summary:\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("Recommendations:\n")
	for _, recommendation := range result.Recommendations {
		output.WriteString(recommendation)
		output.WriteString("\n\n")
	}

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (crf *ComparisonReportFormatter) SupportedType() string {
	return "ComparisonResult"
}

// MetricsTextFormatter handles text formatting for evaluation metrics
type MetricsTextFormatter struct{}

func (mtf *MetricsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationMetrics)
	if !ok {
		return "", fmt.Errorf("expected EvaluationMetrics, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== DATASET EVALUATION ===\n\n")
	output.WriteString(fmt.Sprintf("Samples:   %d\n", result.Samples))
	output.WriteString(fmt.Sprintf("Threshold: %g\n\n", result.Threshold))
	output.WriteString(fmt.Sprintf("Accuracy:  %.2f\n", result.Accuracy))
	output.WriteString(fmt.Sprintf("Precision: %.2f\n", result.Precision))
	output.WriteString(fmt.Sprintf("Recall:    %.2f\n", result.Recall))
	output.WriteString(fmt.Sprintf("F1 Score:  %.2f\n", result.F1))

	return output.String(), nil
}

func (mtf *MetricsTextFormatter) SupportedType() string {
	return "EvaluationMetrics"
}

// MetricsMarkdownFormatter handles markdown formatting for evaluation metrics
type MetricsMarkdownFormatter struct{}

func (mmf *MetricsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationMetrics)
	if !ok {
		return "", fmt.Errorf("expected EvaluationMetrics, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Dataset Evaluation\n\n")
	output.WriteString(fmt.Sprintf("**Samples:** %d\n\n", result.Samples))
	output.WriteString(fmt.Sprintf("**Threshold:** %g\n\n", result.Threshold))
	output.WriteString("| Metric | Value |\n")
	output.WriteString("|--------|-------|\n")
	output.WriteString(fmt.Sprintf("| Accuracy | %.2f |\n", result.Accuracy))
	output.WriteString(fmt.Sprintf("| Precision | %.2f |\n", result.Precision))
	output.WriteString(fmt.Sprintf("| Recall | %.2f |\n", result.Recall))
	output.WriteString(fmt.Sprintf("| F1 Score | %.2f |\n", result.F1))

	return output.String(), nil
}

func (mmf *MetricsMarkdownFormatter) SupportedType() string {
	return "EvaluationMetrics"
}

// BuildDatasetTextFormatter handles text formatting for dataset build results
type BuildDatasetTextFormatter struct{}

func (bdf *BuildDatasetTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BuildDatasetOutput)
	if !ok {
		return "", fmt.Errorf("expected BuildDatasetOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("Dataset saved with %d pairs.\n", result.Pairs))
	output.WriteString(fmt.Sprintf("Resumes used: %d\n", result.ResumesUsed))
	output.WriteString(fmt.Sprintf("Job descriptions used: %d\n", result.JDsUsed))
	output.WriteString(fmt.Sprintf("Output file: %s\n", result.OutputFile))

	return output.String(), nil
}

func (bdf *BuildDatasetTextFormatter) SupportedType() string {
	return "BuildDatasetOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
