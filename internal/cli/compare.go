package cli

import (
	"context"
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/config"
	"resumescreen/internal/embedding"
	"resumescreen/internal/errors"
	"resumescreen/internal/screening"
	"resumescreen/internal/skills"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [job-description-file] [resume1-file] [resume2-file]",
	Short: "Compare two resumes against a job description",
	Long: `Compare two candidate resumes against a job description.
The command takes three arguments: the path to the job description file and
the paths to the two resume files. Plain text, markdown and PDF files are
supported; PDF text is extracted page by page.`,
	Args: cobra.ExactArgs(3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if compareConfig.OutputFormat == "" {
			compareConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(compareConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCompare,
}

var (
	compareConfig    common.CommandConfig
	compareThreshold float64
)

func init() {
	compareCmd.Flags().StringVarP(&compareConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	compareCmd.Flags().StringVar(&compareConfig.OutputFormat, "format", "", "Output format: json, text, markdown, or report")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", -1, "Similarity match threshold (default from config)")

	// Add completion for format flag
	_ = compareCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// newEngine builds a screening engine from the application config
func newEngine(cfg *config.Config, logger *errors.Logger) (*screening.Engine, *embedding.Service, error) {
	var vocab *skills.Vocabulary
	if cfg.Skills.VocabularyFile != "" {
		loaded, err := skills.LoadVocabulary(cfg.Skills.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		vocab = loaded
	} else {
		vocab = skills.NewDefaultVocabulary()
	}

	embeddings, err := embedding.NewService(&cfg.Embedding, logger)
	if err != nil {
		return nil, nil, err
	}

	return screening.NewEngine(vocab, embeddings, logger), embeddings, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if cmd.Flags().Changed("threshold") {
		cfg.Embedding.SimilarityThreshold = compareThreshold
	}

	engine, embeddings, err := newEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create screening engine: %w", err)
	}
	defer func() {
		if err := embeddings.Close(); err != nil {
			logger.LogError(err, "Failed to close embedding service")
		}
	}()

	createInput := func(contents []string) (types.CompareInput, error) {
		if len(contents) != 3 {
			return types.CompareInput{}, fmt.Errorf("expected 3 file paths, got %d", len(contents))
		}
		return types.CompareInput{
			JobDescription: contents[0],
			Resume1:        contents[1],
			Resume2:        contents[2],
		}, nil
	}

	logDetails := func(input types.CompareInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume comparison",
			"jd_chars", len(input.JobDescription),
			"resume1_chars", len(input.Resume1),
			"resume2_chars", len(input.Resume2),
			"output_format", cmdCfg.OutputFormat)
	}

	compareOperation := func(ctx context.Context, input types.CompareInput) (types.ComparisonResult, error) {
		result, err := engine.Compare(ctx, input)
		if err != nil {
			return types.ComparisonResult{}, err
		}
		return *result, nil
	}

	err = common.RunScreeningCommand(
		cmd.Context(),
		logger,
		compareConfig,
		args,
		createInput,
		compareOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to compare resumes: %w", err)
	}
	logger.Info("Resume comparison completed successfully")
	return nil
}
