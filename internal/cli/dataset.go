package cli

import (
	"fmt"

	"resumescreen/internal/common"
	"resumescreen/internal/evaluation"

	"github.com/spf13/cobra"
)

var buildDatasetCmd = &cobra.Command{
	Use:   "build-dataset [resumes-csv] [job-descriptions-csv]",
	Short: "Build a bootstrap dataset from raw CSV sources",
	Long: `Build a labeled dataset by pairing resumes and job descriptions from
two CSV files. Rows are paired positionally and every pair receives a
placeholder positive label, so the output bootstraps evaluation runs but is
not ground truth. Column names, row caps and the length filter come from the
dataset section of the configuration.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if buildDatasetFormat == "" {
			buildDatasetFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(buildDatasetFormat, cfg.App.SupportedFormats)
	},
	RunE: runBuildDataset,
}

var (
	buildDatasetOutput   string
	buildDatasetFormat   string
	buildDatasetResume   string
	buildDatasetJD       string
	buildDatasetMaxPairs int
)

func init() {
	buildDatasetCmd.Flags().StringVarP(&buildDatasetOutput, "output", "o", "dataset.json", "Dataset output file path")
	buildDatasetCmd.Flags().StringVar(&buildDatasetFormat, "format", "", "Summary output format: json or text")
	buildDatasetCmd.Flags().StringVar(&buildDatasetResume, "resume-column", "", "Resume text column name (default from config)")
	buildDatasetCmd.Flags().StringVar(&buildDatasetJD, "jd-column", "", "Job description column name (default from config)")
	buildDatasetCmd.Flags().IntVar(&buildDatasetMaxPairs, "max-pairs", 0, "Upper bound on produced pairs (default from config)")
}

func runBuildDataset(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if buildDatasetResume != "" {
		cfg.Dataset.ResumeColumn = buildDatasetResume
	}
	if buildDatasetJD != "" {
		cfg.Dataset.JDColumn = buildDatasetJD
	}
	if buildDatasetMaxPairs > 0 {
		cfg.Dataset.MaxPairs = buildDatasetMaxPairs
	}

	logger.Info("Starting dataset build",
		"resumes", args[0],
		"job_descriptions", args[1],
		"output", buildDatasetOutput)

	builder := evaluation.NewBuilder(&cfg.Dataset, logger)
	result, err := builder.BuildFromFiles(args[0], args[1], buildDatasetOutput)
	if err != nil {
		return fmt.Errorf("failed to build dataset: %w", err)
	}

	// The dataset itself goes to --output; the build summary goes to stdout
	outputHandler := common.NewOutputHandler(logger)
	summaryConfig := common.CommandConfig{OutputFormat: buildDatasetFormat}
	if err := outputHandler.HandleOutput(*result, summaryConfig); err != nil {
		return err
	}

	logger.Info("Dataset build completed successfully", "pairs", result.Pairs)
	return nil
}
