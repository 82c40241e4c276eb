package cli

import (
	"context"
	"fmt"

	"jobfit/internal/ai"
	"jobfit/internal/common"
	"jobfit/internal/matching"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [job-description-file]",
	Short: "Classify a job description into a job category",
	Long: `Classify a job description into a category such as software
development, data science, or marketing, with a confidence value and a
list of skills commonly expected for that category. Classification is
keyword-based and needs no AI provider.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if classifyConfig.OutputFormat == "" {
			classifyConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(classifyConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runClassify,
}

var classifyConfig common.CommandConfig
var classifyJobTitle string

func init() {
	classifyCmd.Flags().StringVarP(&classifyConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	classifyCmd.Flags().StringVar(&classifyConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	classifyCmd.Flags().StringVar(&classifyJobTitle, "job-title", "", "Job title of the posting")

	// Add completion for format flag
	_ = classifyCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runClassify(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	classifier := matching.NewJobClassifier(matching.DefaultTaxonomy())

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(jobDescription string, cfg common.CommandConfig) {
		logger.Info("Starting job classification",
			"job_title", classifyJobTitle,
			"job_chars", len(jobDescription),
			"output_format", cfg.OutputFormat)
	}

	classifyOperation := func(ctx context.Context, jobDescription string) (types.JobClassification, *ai.TokenUsage, error) {
		classification := classifier.Classify(classifyJobTitle, jobDescription)
		if classification == nil {
			return types.JobClassification{}, nil, fmt.Errorf("no category matched the job description")
		}
		return *classification, nil, nil
	}

	err := common.RunAICommand(
		cmd.Context(),
		logger,
		classifyConfig,
		args,
		createInput,
		classifyOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to classify job description: %w", err)
	}
	logger.Info("Job classification completed successfully")
	return nil
}
