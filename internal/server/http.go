package server

import (
	"time"

	"jobfit/internal/ai"
	"jobfit/internal/config"
	jobfitErrors "jobfit/internal/errors"
	"jobfit/internal/fit"
	"jobfit/internal/matching"
	"jobfit/internal/types"
)

// ScoreRequest represents the request body for the score endpoint
// ClassifyRequest represents the request body for the classify endpoint
// ErrorResponse represents an error response
type ScoreRequest struct {
	Resume         types.Resume `json:"resume"`
	JobTitle       string       `json:"jobTitle"`
	Company        string       `json:"company,omitempty"`
	JobDescription string       `json:"jobDescription"`
}

type ClassifyRequest struct {
	JobTitle       string `json:"jobTitle,omitempty"`
	JobDescription string `json:"jobDescription"`
}

type ClassifyResponse struct {
	Classification *types.JobClassification `json:"classification"`
}

type CoverLetterRequest struct {
	SubjectID      string `json:"subjectId"`
	CandidateName  string `json:"candidateName"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company,omitempty"`
	JobDescription string `json:"jobDescription"`
	ResumeSummary  string `json:"resumeSummary,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Scoring and generation services, built once at startup
	FitService   *fit.Service
	Classifier   *matching.JobClassifier
	CoverLetters *ai.CachedCoverLetters

	// Logger
	Logger *jobfitErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *jobfitErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
