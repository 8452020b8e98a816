package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/text"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Evaluator scores an embedding backend against a labeled dataset
type Evaluator struct {
	embeddings *embedding.Service
	logger     *errors.Logger
	debug      bool
}

// NewEvaluator creates a dataset evaluator. With debug enabled, false
// negatives of the positive class are logged with short input excerpts for
// manual inspection.
func NewEvaluator(embeddings *embedding.Service, logger *errors.Logger, debug bool) *Evaluator {
	return &Evaluator{
		embeddings: embeddings,
		logger:     logger,
		debug:      debug,
	}
}

// LoadSamples reads a labeled dataset from a UTF-8 JSON array of
// {resume_text, job_description, label} objects. A missing file is fatal and
// the error names the file.
func LoadSamples(path string) ([]types.LabeledSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDatasetError(errors.ErrCodeDatasetNotFound,
				fmt.Sprintf("Dataset file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read dataset file: %s", path), err)
	}

	var samples []types.LabeledSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, errors.NewDatasetError(errors.ErrCodeDatasetMalformed,
			fmt.Sprintf("Dataset file is not a valid JSON sample array: %s", path), err)
	}

	return samples, nil
}

// Evaluate classifies every sample at the given threshold and computes
// accuracy, precision, recall and F1 for the positive class. An empty dataset
// returns all-zero metrics without error; undefined ratios (zero denominators)
// also degrade to 0 instead of failing the run.
func (e *Evaluator) Evaluate(ctx context.Context, samples []types.LabeledSample, threshold float64) (*types.EvaluationMetrics, error) {
	metrics := &types.EvaluationMetrics{
		Samples:   len(samples),
		Threshold: threshold,
	}
	if len(samples) == 0 {
		return metrics, nil
	}

	tracer := otel.Tracer("resumescreen.evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("evaluation.samples", len(samples)),
		attribute.Float64("evaluation.threshold", threshold),
	)

	var truePositives, falsePositives, falseNegatives, correct int

	for i, sample := range samples {
		similarity, err := e.embeddings.Similarity(ctx,
			text.Normalize(sample.ResumeText),
			text.Normalize(sample.JobDescription))
		if err != nil {
			span.RecordError(err)
			return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingFailed,
				fmt.Sprintf("Failed to score sample %d", i), err)
		}

		predicted := 0
		if similarity > threshold {
			predicted = 1
		}

		e.logger.Debug("Sample scored",
			"index", i,
			"similarity", similarity,
			"predicted", predicted,
			"label", sample.Label)

		if predicted == sample.Label {
			correct++
		}
		switch {
		case predicted == 1 && sample.Label == 1:
			truePositives++
		case predicted == 1 && sample.Label == 0:
			falsePositives++
		case predicted == 0 && sample.Label == 1:
			falseNegatives++
			if e.debug {
				e.logger.Warn("Low score but labeled as match",
					"index", i,
					"similarity", similarity,
					"resume_excerpt", excerpt(sample.ResumeText),
					"jd_excerpt", excerpt(sample.JobDescription))
			}
		}
	}

	metrics.Accuracy = float64(correct) / float64(len(samples))
	if truePositives+falsePositives > 0 {
		metrics.Precision = float64(truePositives) / float64(truePositives+falsePositives)
	}
	if truePositives+falseNegatives > 0 {
		metrics.Recall = float64(truePositives) / float64(truePositives+falseNegatives)
	}
	if metrics.Precision+metrics.Recall > 0 {
		metrics.F1 = 2 * metrics.Precision * metrics.Recall / (metrics.Precision + metrics.Recall)
	}

	span.SetAttributes(
		attribute.Float64("evaluation.accuracy", metrics.Accuracy),
		attribute.Float64("evaluation.f1", metrics.F1),
	)

	return metrics, nil
}

// excerpt returns the first 200 characters with newlines flattened
func excerpt(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
