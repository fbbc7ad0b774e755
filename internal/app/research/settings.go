package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/app/retry"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// Settings are the knobs of one research session.
type Settings struct {
	MonitoringDuration   time.Duration
	CheckInterval        time.Duration
	MaxRepliesPerThread  int
	UpvoteRatioThreshold float64
	RateLimitDelay       time.Duration
	MinUpvotes           int

	CommunitySampleSize int
	KeyInsights         int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StoreTimeout time.Duration
	Retry        retry.Policy
}

func DefaultSettings() Settings {
	return Settings{
		MonitoringDuration:   6 * time.Hour,
		CheckInterval:        time.Hour,
		MaxRepliesPerThread:  4,
		UpvoteRatioThreshold: 0.05,
		RateLimitDelay:       120 * time.Second,
		MinUpvotes:           5,
		CommunitySampleSize:  10,
		KeyInsights:          3,
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         30 * time.Second,
		StoreTimeout:         10 * time.Second,
		Retry:                retry.DefaultPolicy(),
	}
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var problems []string
	if s.MonitoringDuration <= 0 {
		problems = append(problems, "monitoring_duration must be > 0")
	}
	if s.CheckInterval <= 0 {
		problems = append(problems, "check_interval must be > 0")
	}
	if s.MaxRepliesPerThread < 0 {
		problems = append(problems, "max_replies_per_thread must be >= 0")
	}
	if s.UpvoteRatioThreshold < 0 || s.UpvoteRatioThreshold > 1 {
		problems = append(problems, "upvote_ratio_threshold must be within [0, 1]")
	}
	if s.MinUpvotes < 0 {
		problems = append(problems, "min_upvotes must be >= 0")
	}
	if s.RateLimitDelay < 0 {
		problems = append(problems, "rate_limit_delay must be >= 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}
