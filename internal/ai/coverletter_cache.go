package ai

import (
	"context"
	"strings"
	"sync"
	"time"

	"jobfit/internal/errors"
	"jobfit/internal/types"
)

// CachedCoverLetters wraps an AIProvider and serves at most one generated
// letter per subject, job title, and company per calendar day. Repeat
// requests within the day return the cached letter without an API call.
type CachedCoverLetters struct {
	provider AIProvider
	logger   *errors.Logger
	now      func() time.Time

	mu      sync.Mutex
	day     string
	entries map[string]types.CoverLetterOutput
}

// NewCachedCoverLetters creates a daily cover-letter cache around the provider
func NewCachedCoverLetters(provider AIProvider, logger *errors.Logger) *CachedCoverLetters {
	return &CachedCoverLetters{
		provider: provider,
		logger:   logger,
		now:      time.Now,
		entries:  make(map[string]types.CoverLetterOutput),
	}
}

// Generate returns the cached letter for today when present, otherwise
// generates a new one and caches it. Generation failures are never cached.
func (c *CachedCoverLetters) Generate(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, *TokenUsage, error) {
	key := cacheKey(input)
	today := c.now().Format("2006-01-02")

	c.mu.Lock()
	if c.day != today {
		// New day, previous entries are stale
		c.day = today
		c.entries = make(map[string]types.CoverLetterOutput)
	}
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.logger.Debug("Cover letter served from daily cache",
			"subject_id", input.SubjectID,
			"job_title", input.JobTitle)
		return cached, nil, nil
	}
	c.mu.Unlock()

	output, usage, err := c.provider.GenerateCoverLetter(ctx, input)
	if err != nil {
		return types.CoverLetterOutput{}, nil, err
	}

	c.mu.Lock()
	if c.day == today {
		c.entries[key] = output
	}
	c.mu.Unlock()

	return output, usage, nil
}

// cacheKey builds the per-day identity of a cover-letter request.
// Job title and company are case-insensitive.
func cacheKey(input types.CoverLetterInput) string {
	return strings.Join([]string{
		input.SubjectID,
		strings.ToLower(strings.TrimSpace(input.JobTitle)),
		strings.ToLower(strings.TrimSpace(input.Company)),
	}, "\x1f")
}
