package cli

import (
	"context"
	"fmt"

	"jobfit/internal/ai"
	"jobfit/internal/common"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "coverletter [job-description-file]",
	Short: "Generate a cover letter for a job posting",
	Long: `Generate a personalized cover letter for a job posting using AI.
The command takes one argument: the path to the job description file.
Use the flags to supply the candidate name, the job title and optional
company and resume summary for a more tailored letter.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if coverLetterConfig.OutputFormat == "" {
			coverLetterConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(coverLetterConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCoverLetter,
}

var coverLetterConfig common.CommandConfig
var coverLetterCandidate string
var coverLetterJobTitle string
var coverLetterCompany string
var coverLetterSummary string

func init() {
	coverLetterCmd.Flags().StringVarP(&coverLetterConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	coverLetterCmd.Flags().StringVar(&coverLetterConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	coverLetterCmd.Flags().StringVar(&coverLetterCandidate, "candidate-name", "", "Candidate name used in the letter")
	coverLetterCmd.Flags().StringVar(&coverLetterJobTitle, "job-title", "", "Job title of the posting")
	coverLetterCmd.Flags().StringVar(&coverLetterCompany, "company", "", "Company name of the posting")
	coverLetterCmd.Flags().StringVar(&coverLetterSummary, "resume-summary", "", "Short summary of the candidate's background")
	_ = coverLetterCmd.MarkFlagRequired("candidate-name")
	_ = coverLetterCmd.MarkFlagRequired("job-title")

	// Add completion for format flag
	_ = coverLetterCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for cover-letter operation. The daily cache is a
	// server concern; a one-shot CLI run always generates fresh.
	coverLetterAIConfig := cfg.GetCoverLetterConfig()
	aiService, err := ai.NewService(&coverLetterAIConfig, "coverLetter", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.CoverLetterInput, error) {
		if len(contents) != 1 {
			return types.CoverLetterInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.CoverLetterInput{
			SubjectID:      "cli",
			CandidateName:  coverLetterCandidate,
			JobTitle:       coverLetterJobTitle,
			Company:        coverLetterCompany,
			JobDescription: contents[0],
			ResumeSummary:  coverLetterSummary,
		}, nil
	}

	logDetails := func(input types.CoverLetterInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"job_title", input.JobTitle,
			"company", input.Company,
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	coverLetterOperation := func(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, *ai.TokenUsage, error) {
		return aiService.Provider.GenerateCoverLetter(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		coverLetterConfig,
		args,
		createInput,
		coverLetterOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
