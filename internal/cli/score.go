package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"jobfit/internal/ai"
	"jobfit/internal/common"
	"jobfit/internal/embedding"
	"jobfit/internal/fit"
	"jobfit/internal/matching"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score how well a resume fits a job posting",
	Long: `Score a resume against a job description on a 0-10 scale.
The command takes two arguments: the path to the resume file (JSON) and
the path to the job description file (plain text). The score combines
skill, experience, project, title and education matching with
embedding-based semantic similarity, minus penalties for severe
technology or experience mismatches.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig
var scoreJobTitle string
var scoreCompany string

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().StringVar(&scoreJobTitle, "job-title", "", "Job title of the posting")
	scoreCmd.Flags().StringVar(&scoreCompany, "company", "", "Company name of the posting")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// scoreInput pairs the parsed resume with the job posting built from the
// description file and the flags.
type scoreInput struct {
	Resume types.Resume
	Letter types.CoverLetter
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	taxonomy := matching.DefaultTaxonomy()

	// Both AI collaborators are optional for scoring. A failed embedder
	// degrades to neutral similarity, a failed explainer to the fixed
	// fallback explanation.
	var similarity fit.SimilarityCalculator
	embeddingConfig := cfg.GetEmbeddingConfig()
	if embedder, err := embedding.NewGeminiEmbedder(&embeddingConfig, logger); err == nil {
		similarity = embedding.NewSimilarityProvider(embedder, logger)
	} else {
		logger.LogError(err, "Embedding provider unavailable, score will use neutral similarity")
		similarity = embedding.NeutralSimilarityCalculator{}
	}

	var explainer fit.Explainer
	explainConfig := cfg.GetExplainConfig()
	if explainService, err := ai.NewService(&explainConfig, "explain", logger); err == nil {
		explainer = explainService.Provider
	} else {
		logger.LogError(err, "Explain service unavailable, score will use fallback explanation")
	}

	fitService := fit.NewService(taxonomy, cfg.Scoring, similarity, explainer, logger)

	createInput := func(contents []string) (scoreInput, error) {
		if len(contents) != 2 {
			return scoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var resume types.Resume
		if err := json.Unmarshal([]byte(contents[0]), &resume); err != nil {
			return scoreInput{}, fmt.Errorf("failed to parse resume JSON: %w", err)
		}
		return scoreInput{
			Resume: resume,
			Letter: types.CoverLetter{
				JobTitle:       scoreJobTitle,
				Company:        scoreCompany,
				JobDescription: contents[1],
			},
		}, nil
	}

	logDetails := func(input scoreInput, cfg common.CommandConfig) {
		logger.Info("Starting job fit scoring",
			"job_title", input.Letter.JobTitle,
			"job_chars", len(input.Letter.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Scoring never fails outright; a nil score with an explanation is
	// still a valid result for the formatter.
	scoreOperation := func(ctx context.Context, input scoreInput) (types.JobFitResult, *ai.TokenUsage, error) {
		result := fitService.CalculateJobFitScore(ctx, &input.Resume, &input.Letter)
		return *result, nil, nil
	}

	err := common.RunAICommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		createInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Job fit scoring completed successfully")
	return nil
}
