package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobfit/internal/observability"
	"jobfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		// Parse request
		var req ScoreRequest
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

		// Size validation
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.skill_list_length", len(req.Resume.Skills.SkillList)),
			attribute.String("operation", "score"),
		)

		if s.FitService == nil {
			err := fmt.Errorf("fit service not initialized")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Scoring unavailable", err.Error(), http.StatusServiceUnavailable)
			return
		}

		letter := types.CoverLetter{
			JobTitle:       req.JobTitle,
			Company:        req.Company,
			JobDescription: req.JobDescription,
		}

		result := s.FitService.CalculateJobFitScore(ctx, &req.Resume, &letter)

		// Record score metrics
		metrics := om.GetMetrics()
		success := result.Score != nil
		if success {
			metrics.RecordScore(ctx, *result.Score, true,
				attribute.String("endpoint", "/score"))
			if result.Breakdown != nil {
				metrics.RecordEmbeddingSimilarity(ctx, result.Breakdown.EmbeddingSimilarity/10)
			}
		} else {
			metrics.RecordBusinessMetric(ctx, "score_calculated", false)
		}

		span.SetAttributes(attribute.Bool("success", success))
		if success {
			span.SetAttributes(attribute.Float64("score.value", *result.Score))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createClassifyHandler wraps the classify handler with observability
func (s *Server) createClassifyHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.classify")
		defer span.End()

		var req ClassifyRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "classify"),
		)

		if s.Classifier == nil {
			err := fmt.Errorf("classifier not initialized")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Classification unavailable", err.Error(), http.StatusServiceUnavailable)
			return
		}

		classification := s.Classifier.Classify(req.JobTitle, req.JobDescription)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "job_classified", classification != nil)

		span.SetAttributes(attribute.Bool("success", true))
		if classification != nil {
			span.SetAttributes(
				attribute.String("classification.category", classification.Category),
				attribute.Float64("classification.confidence", classification.Confidence),
			)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ClassifyResponse{Classification: classification}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createCoverLetterHandler wraps the cover-letter handler with observability
func (s *Server) createCoverLetterHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.coverletter")
		defer span.End()

		var req CoverLetterRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.SubjectID) == "" {
			err := fmt.Errorf("missing subject id")
			span.RecordError(err)
			writeErrorResponse(w, "Missing subject id", "subjectId field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobTitle) == "" {
			err := fmt.Errorf("missing job title")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job title", "jobTitle field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "cover_letter"),
		)

		if s.CoverLetters == nil {
			err := fmt.Errorf("cover-letter service not initialized")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Cover-letter generation unavailable", err.Error(), http.StatusServiceUnavailable)
			return
		}

		input := types.CoverLetterInput{
			SubjectID:      req.SubjectID,
			CandidateName:  req.CandidateName,
			JobTitle:       req.JobTitle,
			Company:        req.Company,
			JobDescription: req.JobDescription,
			ResumeSummary:  req.ResumeSummary,
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result types.CoverLetterOutput
		err := metrics.TrackAIOperationWithTokens(ctx, "cover_letter", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := s.CoverLetters.Generate(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "cover_letter_generated", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate cover letter", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "cover_letter_generated", true,
			attribute.Int("output.letter_length", len(result.CoverLetter)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.letter_length", len(result.CoverLetter)),
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
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
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
