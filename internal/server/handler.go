package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumescreen/internal/evaluation"
	"resumescreen/internal/observability"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createCompareHandler wraps the compare handler with observability
func (s *Server) createCompareHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.compare")
		defer span.End()

		var req CompareRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Resume1) == "" {
			err := fmt.Errorf("missing first resume")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing first resume", "resume1 field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Resume2) == "" {
			err := fmt.Errorf("missing second resume")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing second resume", "resume2 field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		fieldLimit := int(s.MaxRequestSize / 3)
		for name, text := range map[string]string{
			"jobDescription": req.JobDescription,
			"resume1":        req.Resume1,
			"resume2":        req.Resume2,
		} {
			if s.MaxRequestSize > 0 && len(text) > fieldLimit {
				err := fmt.Errorf("%s too large: %d chars", name, len(text))
				span.RecordError(err)
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Input too large",
					fmt.Sprintf("%s exceeds recommended size limit of %d characters", name, fieldLimit),
					http.StatusBadRequest)
				return
			}
		}

		span.SetAttributes(
			attribute.Int("request.jd_length", len(req.JobDescription)),
			attribute.Int("request.resume1_length", len(req.Resume1)),
			attribute.Int("request.resume2_length", len(req.Resume2)),
			attribute.String("operation", "compare"),
		)

		input := types.CompareInput{
			JobDescription: req.JobDescription,
			Resume1:        req.Resume1,
			Resume2:        req.Resume2,
		}

		metrics := om.GetMetrics()
		var result *types.ComparisonResult
		err := metrics.TrackEmbeddingOperation(ctx, "compare", func(ctx context.Context) error {
			output, compareErr := s.Engine.Compare(ctx, input)
			result = output
			return compareErr
		})

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "screening"))
			metrics.RecordBusinessMetric(ctx, "comparison_performed", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to compare resumes", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "comparison_performed", true,
			attribute.Int("winner", int(result.Winner)),
			attribute.Int("job_skills", len(result.JobSkills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.winner", int(result.Winner)),
			attribute.Float64("response.similarity_1", result.Resume1.Similarity),
			attribute.Float64("response.similarity_2", result.Resume2.Similarity),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createEvaluateHandler wraps the evaluate handler with observability
func (s *Server) createEvaluateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescreen.api")
		ctx, span := tracer.Start(ctx, "api.evaluate")
		defer span.End()

		var req EvaluateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if req.Samples == nil {
			err := fmt.Errorf("missing samples")
			span.RecordError(err)
			writeErrorResponse(w, "Missing samples", "samples field is required", http.StatusBadRequest)
			return
		}

		threshold := s.Embeddings.Threshold()
		if req.Threshold != nil {
			threshold = *req.Threshold
		}

		span.SetAttributes(
			attribute.Int("request.samples", len(req.Samples)),
			attribute.Float64("request.threshold", threshold),
			attribute.String("operation", "evaluate"),
		)

		evaluator := evaluation.NewEvaluator(s.Embeddings, s.Logger, req.Debug)

		metrics := om.GetMetrics()
		var result *types.EvaluationMetrics
		err := metrics.TrackEmbeddingOperation(ctx, "evaluate", func(ctx context.Context) error {
			output, evalErr := evaluator.Evaluate(ctx, req.Samples, threshold)
			result = output
			return evalErr
		})

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "evaluation_performed", false)
			writeErrorResponse(w, "Failed to evaluate dataset", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "evaluation_performed", true,
			attribute.Int("samples", result.Samples))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.accuracy", result.Accuracy),
			attribute.Float64("response.f1", result.F1),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
