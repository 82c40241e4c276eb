package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobfit/internal/types"
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
	registry.RegisterFormatter("text", "JobFitResult", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "JobFitResult", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobClassification", &ClassificationTextFormatter{})
	registry.RegisterFormatter("markdown", "JobClassification", &ClassificationMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetterOutput", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetterOutput", &CoverLetterMarkdownFormatter{})

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
	case types.JobFitResult:
		return "JobFitResult"
	case types.JobClassification:
		return "JobClassification"
	case types.CoverLetterOutput:
		return "CoverLetterOutput"
	default:
		return "any"
	}
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

// ScoreTextFormatter handles text formatting for scoring results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobFitResult)
	if !ok {
		return "", fmt.Errorf("expected JobFitResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB FIT SCORE ===\n\n")
	if result.Score != nil {
		output.WriteString(fmt.Sprintf("Score: %.1f/10\n\n", *result.Score))
	} else {
		output.WriteString("Score: unavailable\n\n")
	}
	output.WriteString("Explanation:\n")
	output.WriteString(result.Explanation)
	output.WriteString("\n")

	if b := result.Breakdown; b != nil {
		output.WriteString("\n=== SCORE BREAKDOWN ===\n")
		output.WriteString(fmt.Sprintf("Embedding similarity: %.1f/10\n", b.EmbeddingSimilarity))
		output.WriteString(fmt.Sprintf("Component score:      %.1f/10\n", b.ComponentScore))
		output.WriteString(fmt.Sprintf("  Skills:      %.1f\n", b.SkillsScore))
		output.WriteString(fmt.Sprintf("  Experience:  %.1f\n", b.ExperienceScore))
		output.WriteString(fmt.Sprintf("  Projects:    %.1f\n", b.ProjectsScore))
		output.WriteString(fmt.Sprintf("  Job title:   %.1f\n", b.JobTitleScore))
		output.WriteString(fmt.Sprintf("  Education:   %.1f\n", b.EducationScore))
		if b.TechnicalPenalty > 0 {
			output.WriteString(fmt.Sprintf("Technical penalty:  -%.1f\n", b.TechnicalPenalty))
		}
		if b.ExperiencePenalty > 0 {
			output.WriteString(fmt.Sprintf("Experience penalty: -%.1f\n", b.ExperiencePenalty))
		}
		if b.TechnicalMismatch != "" {
			output.WriteString("Technical mismatch: ")
			output.WriteString(b.TechnicalMismatch)
			output.WriteString("\n")
		}
		if b.ExperienceMismatch != "" {
			output.WriteString("Experience mismatch: ")
			output.WriteString(b.ExperienceMismatch)
			output.WriteString("\n")
		}
	}

	if c := result.JobClassification; c != nil {
		output.WriteString("\n=== JOB CLASSIFICATION ===\n")
		output.WriteString(fmt.Sprintf("Category: %s (confidence %.2f)\n", c.Category, c.Confidence))
		if len(c.SuggestedSkills) > 0 {
			output.WriteString("Suggested skills:\n")
			for _, skill := range c.SuggestedSkills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "JobFitResult"
}

// ScoreMarkdownFormatter handles markdown formatting for scoring results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobFitResult)
	if !ok {
		return "", fmt.Errorf("expected JobFitResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Fit Score\n\n")
	if result.Score != nil {
		output.WriteString(fmt.Sprintf("**Score:** %.1f/10\n\n", *result.Score))
	} else {
		output.WriteString("**Score:** unavailable\n\n")
	}
	output.WriteString("## Explanation\n\n")
	output.WriteString(result.Explanation)
	output.WriteString("\n")

	if b := result.Breakdown; b != nil {
		output.WriteString("\n## Score Breakdown\n\n")
		output.WriteString(fmt.Sprintf("- **Embedding similarity:** %.1f/10\n", b.EmbeddingSimilarity))
		output.WriteString(fmt.Sprintf("- **Component score:** %.1f/10\n", b.ComponentScore))
		output.WriteString(fmt.Sprintf("  - Skills: %.1f\n", b.SkillsScore))
		output.WriteString(fmt.Sprintf("  - Experience: %.1f\n", b.ExperienceScore))
		output.WriteString(fmt.Sprintf("  - Projects: %.1f\n", b.ProjectsScore))
		output.WriteString(fmt.Sprintf("  - Job title: %.1f\n", b.JobTitleScore))
		output.WriteString(fmt.Sprintf("  - Education: %.1f\n", b.EducationScore))
		if b.TechnicalPenalty > 0 {
			output.WriteString(fmt.Sprintf("- **Technical penalty:** -%.1f\n", b.TechnicalPenalty))
		}
		if b.ExperiencePenalty > 0 {
			output.WriteString(fmt.Sprintf("- **Experience penalty:** -%.1f\n", b.ExperiencePenalty))
		}
		if b.TechnicalMismatch != "" {
			output.WriteString(fmt.Sprintf("- **Technical mismatch:** %s\n", b.TechnicalMismatch))
		}
		if b.ExperienceMismatch != "" {
			output.WriteString(fmt.Sprintf("- **Experience mismatch:** %s\n", b.ExperienceMismatch))
		}
	}

	if c := result.JobClassification; c != nil {
		output.WriteString("\n## Job Classification\n\n")
		output.WriteString(fmt.Sprintf("**Category:** %s (confidence %.2f)\n", c.Category, c.Confidence))
		if len(c.SuggestedSkills) > 0 {
			output.WriteString("\n### Suggested Skills\n")
			for _, skill := range c.SuggestedSkills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
		}
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "JobFitResult"
}

// ClassificationTextFormatter handles text formatting for job classification results
type ClassificationTextFormatter struct{}

func (ctf *ClassificationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobClassification)
	if !ok {
		return "", fmt.Errorf("expected JobClassification, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB CLASSIFICATION ===\n\n")
	output.WriteString(fmt.Sprintf("Category: %s\n", result.Category))
	output.WriteString(fmt.Sprintf("Confidence: %.2f\n", result.Confidence))
	if len(result.SuggestedSkills) > 0 {
		output.WriteString("\nSuggested skills:\n")
		for _, skill := range result.SuggestedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (ctf *ClassificationTextFormatter) SupportedType() string {
	return "JobClassification"
}

// ClassificationMarkdownFormatter handles markdown formatting for job classification results
type ClassificationMarkdownFormatter struct{}

func (cmf *ClassificationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobClassification)
	if !ok {
		return "", fmt.Errorf("expected JobClassification, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Classification\n\n")
	output.WriteString(fmt.Sprintf("**Category:** %s\n\n", result.Category))
	output.WriteString(fmt.Sprintf("**Confidence:** %.2f\n", result.Confidence))
	if len(result.SuggestedSkills) > 0 {
		output.WriteString("\n## Suggested Skills\n\n")
		for _, skill := range result.SuggestedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (cmf *ClassificationMarkdownFormatter) SupportedType() string {
	return "JobClassification"
}

// CoverLetterTextFormatter handles text formatting for cover-letter results
type CoverLetterTextFormatter struct{}

func (clf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	return output.String(), nil
}

func (clf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover-letter results
type CoverLetterMarkdownFormatter struct{}

func (clmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	return output.String(), nil
}

func (clmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
