package screening

import (
	"context"
	"fmt"
	"strings"

	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/skills"
	"resumescreen/internal/text"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Engine runs the resume comparison pipeline. It holds only the skill
// vocabulary and the embedding service handle, so a single engine serves
// concurrent requests without locking.
type Engine struct {
	vocab      *skills.Vocabulary
	embeddings *embedding.Service
	logger     *errors.Logger
}

// NewEngine creates a screening engine
func NewEngine(vocab *skills.Vocabulary, embeddings *embedding.Service, logger *errors.Logger) *Engine {
	return &Engine{
		vocab:      vocab,
		embeddings: embeddings,
		logger:     logger,
	}
}

// Compare scores two resumes against one job description and returns the full
// comparison. Keyword scores come from vocabulary matching against the job
// description's skills; similarity comes from one batched embedding call over
// [resume1, resume2, jobDescription].
func (e *Engine) Compare(ctx context.Context, input types.CompareInput) (*types.ComparisonResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("resumescreen.screening")
	ctx, span := tracer.Start(ctx, "screening.compare")
	defer span.End()

	jd := text.Normalize(input.JobDescription)
	resume1 := text.Normalize(input.Resume1)
	resume2 := text.Normalize(input.Resume2)

	jdSkills := skills.SelectRelevant(jd, e.vocab.Terms())
	score1, matched1, missing1 := skills.Score(resume1, jdSkills)
	score2, matched2, missing2 := skills.Score(resume2, jdSkills)

	span.SetAttributes(
		attribute.Int("screening.jd_skills", len(jdSkills)),
		attribute.Float64("screening.keyword_score_1", score1),
		attribute.Float64("screening.keyword_score_2", score2),
	)

	vectors, err := e.embeddings.Provider.Embed(ctx, []string{resume1, resume2, jd})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sim1 := embedding.Cosine(vectors[0], vectors[2])
	sim2 := embedding.Cosine(vectors[1], vectors[2])
	threshold := e.embeddings.Threshold()

	result := &types.ComparisonResult{
		JobSkills: jdSkills,
		Resume1: types.ResumeMatch{
			KeywordScore:  score1,
			MatchedSkills: matched1,
			MissingSkills: missing1,
			Similarity:    sim1,
			IsMatch:       sim1 > threshold,
		},
		Resume2: types.ResumeMatch{
			KeywordScore:  score2,
			MatchedSkills: matched2,
			MissingSkills: missing2,
			Similarity:    sim2,
			IsMatch:       sim2 > threshold,
		},
		Winner:    decideWinner(score1, score2),
		Summary:   summarize(score1, score2),
		Threshold: threshold,
	}
	result.Recommendations = recommend(result)

	e.logger.Info("Comparison completed",
		"jd_skills", len(jdSkills),
		"keyword_score_1", score1,
		"keyword_score_2", score2,
		"similarity_1", sim1,
		"similarity_2", sim2,
		"winner", result.Winner)

	return result, nil
}

// Similarity exposes a single resume-to-job similarity check, used by the
// evaluation loop where no second resume is involved.
func (e *Engine) Similarity(ctx context.Context, resume, jobDescription string) (float64, error) {
	return e.embeddings.Similarity(ctx, text.Normalize(resume), text.Normalize(jobDescription))
}

// Threshold returns the classification threshold the engine scores against.
func (e *Engine) Threshold() float64 {
	return e.embeddings.Threshold()
}

func validateInput(input types.CompareInput) error {
	if strings.TrimSpace(input.JobDescription) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyInput,
			"Job description is required", nil)
	}
	if strings.TrimSpace(input.Resume1) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyInput,
			"Resume 1 is required", nil)
	}
	if strings.TrimSpace(input.Resume2) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyInput,
			"Resume 2 is required", nil)
	}
	return nil
}

// decideWinner compares keyword scores. Equal scores are an explicit draw
// rather than an arbitrary pick.
func decideWinner(score1, score2 float64) int {
	switch {
	case score1 > score2:
		return types.WinnerResume1
	case score2 > score1:
		return types.WinnerResume2
	default:
		return types.WinnerDraw
	}
}

func summarize(score1, score2 float64) string {
	switch {
	case score1 > score2:
		return fmt.Sprintf("Resume 1 has better skill alignment (%.0f%%).", score1*100)
	case score2 > score1:
		return fmt.Sprintf("Resume 2 has better skill alignment (%.0f%%).", score2*100)
	default:
		return fmt.Sprintf("Both resumes are similarly aligned (%.0f%%).", score1*100)
	}
}

// recommend produces per-resume advice plus a closing verdict line
func recommend(result *types.ComparisonResult) []string {
	recommendations := make([]string, 0, 3)

	for i, match := range []types.ResumeMatch{result.Resume1, result.Resume2} {
		if len(match.MissingSkills) > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Resume %d: Consider adding these missing skills: %s.",
					i+1, strings.Join(match.MissingSkills, ", ")))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Resume %d: All key job skills are covered.", i+1))
		}
	}

	switch result.Winner {
	case types.WinnerResume1:
		recommendations = append(recommendations,
			"Resume 1 is a better match based on skills and similarity.")
	case types.WinnerResume2:
		recommendations = append(recommendations,
			"Resume 2 is a better match based on skills and similarity.")
	default:
		recommendations = append(recommendations,
			"Both resumes have similar match scores.")
	}

	return recommendations
}
