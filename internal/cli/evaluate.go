package cli

import (
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/embedding"
	"resumescreen/internal/evaluation"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [dataset-file]",
	Short: "Evaluate the embedding backend against a labeled dataset",
	Long: `Evaluate the embedding similarity classifier against a labeled dataset.
The dataset is a JSON array of objects with resume_text, job_description and
label fields. Every sample is classified at the threshold and accuracy,
precision, recall and F1 are reported for the positive class.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if evaluateConfig.OutputFormat == "" {
			evaluateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(evaluateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runEvaluate,
}

var (
	evaluateConfig    common.CommandConfig
	evaluateThreshold float64
	evaluateDebug     bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	evaluateCmd.Flags().StringVar(&evaluateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	evaluateCmd.Flags().Float64Var(&evaluateThreshold, "threshold", -1, "Classification threshold (default from config)")
	evaluateCmd.Flags().BoolVar(&evaluateDebug, "debug", false, "Log excerpts for false negatives of the positive class")

	_ = evaluateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	samples, err := evaluation.LoadSamples(args[0])
	if err != nil {
		return err
	}

	embeddings, err := embedding.NewService(&cfg.Embedding, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}
	defer func() {
		if err := embeddings.Close(); err != nil {
			logger.LogError(err, "Failed to close embedding service")
		}
	}()

	threshold := embeddings.Threshold()
	if cmd.Flags().Changed("threshold") {
		threshold = evaluateThreshold
	}

	logger.Info("Starting dataset evaluation",
		"dataset", args[0],
		"samples", len(samples),
		"threshold", threshold,
		"debug", evaluateDebug)

	evaluator := evaluation.NewEvaluator(embeddings, logger, evaluateDebug)
	metrics, err := evaluator.Evaluate(cmd.Context(), samples, threshold)
	if err != nil {
		return fmt.Errorf("failed to evaluate dataset: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(*metrics, evaluateConfig); err != nil {
		return err
	}

	logger.Info("Dataset evaluation completed successfully",
		"accuracy", metrics.Accuracy,
		"f1", metrics.F1)
	return nil
}
