package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/app/retry"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// Config is the whole configuration of the agent. Research timings are
// whole seconds; call timeouts are duration strings.
type Config struct {
	Research ResearchConfig `yaml:"research"`
	LLM      LLMConfig      `yaml:"llm"`
	Reddit   RedditConfig   `yaml:"reddit"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ResearchConfig struct {
	MonitoringDuration   int     `yaml:"monitoring_duration"`
	CheckInterval        int     `yaml:"check_interval"`
	MaxRepliesPerThread  int     `yaml:"max_replies_per_thread"`
	UpvoteRatioThreshold float64 `yaml:"upvote_ratio_threshold"`
	RateLimitDelay       int     `yaml:"rate_limit_delay"`
	MinUpvotes           int     `yaml:"min_upvotes"`

	CommunitySampleSize   int    `yaml:"community_sample_size"`
	KeyInsights           int    `yaml:"key_insights"`
	MaxConcurrentSessions int    `yaml:"max_concurrent_sessions"`
	ReadTimeout           string `yaml:"read_timeout"`
	WriteTimeout          string `yaml:"write_timeout"`
	StoreTimeout          string `yaml:"store_timeout"`
	GenerateTimeout       string `yaml:"generate_timeout"`
	RetryAttempts         int    `yaml:"retry_attempts"`
	RetryBackoff          string `yaml:"retry_backoff"`
	RetryMaxBackoff       string `yaml:"retry_max_backoff"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"` // gemini or mock
	APIKey      string  `yaml:"api_key"`
	Project     string  `yaml:"project"`
	Location    string  `yaml:"location"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

type RedditConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	UserAgent    string `yaml:"user_agent"`
	// DryRun swaps Reddit for the in-memory sandbox.
	DryRun bool `yaml:"dry_run"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"` // file, memory, sqlite, postgres, firestore
	Dir        string `yaml:"dir"`
	DSN        string `yaml:"dsn"`
	GCPProject string `yaml:"gcp_project"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Research: ResearchConfig{
			MonitoringDuration:    21600,
			CheckInterval:         3600,
			MaxRepliesPerThread:   4,
			UpvoteRatioThreshold:  0.05,
			RateLimitDelay:        120,
			MinUpvotes:            5,
			CommunitySampleSize:   10,
			KeyInsights:           3,
			MaxConcurrentSessions: 4,
			ReadTimeout:           "30s",
			WriteTimeout:          "30s",
			StoreTimeout:          "10s",
			GenerateTimeout:       "60s",
			RetryAttempts:         3,
			RetryBackoff:          "1s",
			RetryMaxBackoff:       "30s",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Location:    "us-central1",
			Model:       "gemini-2.5-flash",
			Temperature: 0.6,
		},
		Reddit: RedditConfig{
			UserAgent: "RedditReady Research Bot 1.0",
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "data",
		},
		Server:  ServerConfig{Port: "8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read config: %v", domain.ErrConfig, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config: %v", domain.ErrConfig, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func (c *Config) applyEnvOverrides() {
	c.Reddit.ClientID = getEnv("REDDIT_CLIENT_ID", c.Reddit.ClientID)
	c.Reddit.ClientSecret = getEnv("REDDIT_CLIENT_SECRET", c.Reddit.ClientSecret)
	c.Reddit.UserAgent = getEnv("REDDIT_USER_AGENT", c.Reddit.UserAgent)
	c.Reddit.Username = getEnv("REDDIT_USERNAME", c.Reddit.Username)
	c.Reddit.Password = getEnv("REDDIT_PASSWORD", c.Reddit.Password)
	c.Reddit.DryRun = getBoolEnv("REDDITREADY_DRY_RUN", c.Reddit.DryRun)

	c.LLM.APIKey = getEnv("GOOGLE_API_KEY", c.LLM.APIKey)
	c.LLM.Provider = getEnv("REDDITREADY_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Project = getEnv("REDDITREADY_GCP_PROJECT", c.LLM.Project)
	c.LLM.Location = getEnv("REDDITREADY_GCP_LOCATION", c.LLM.Location)
	c.LLM.Model = getEnv("REDDITREADY_MODEL_NAME", c.LLM.Model)

	c.Storage.Backend = getEnv("REDDITREADY_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Dir = getEnv("REDDITREADY_DATA_DIR", c.Storage.Dir)
	c.Storage.DSN = getEnv("REDDITREADY_DSN", c.Storage.DSN)
	c.Storage.GCPProject = getEnv("REDDITREADY_GCP_PROJECT", c.Storage.GCPProject)

	c.Research.MonitoringDuration = getIntEnv("REDDITREADY_MONITORING_DURATION", c.Research.MonitoringDuration)
	c.Research.CheckInterval = getIntEnv("REDDITREADY_CHECK_INTERVAL", c.Research.CheckInterval)
	c.Research.MaxRepliesPerThread = getIntEnv("REDDITREADY_MAX_REPLIES", c.Research.MaxRepliesPerThread)

	c.Server.Port = getEnv("REDDITREADY_PORT", c.Server.Port)
	c.Logging.Level = getEnv("REDDITREADY_LOG_LEVEL", c.Logging.Level)
}

// Settings converts the research section for the orchestrator.
func (c *Config) Settings() (research.Settings, error) {
	r := c.Research
	s := research.Settings{
		MonitoringDuration:   seconds(r.MonitoringDuration),
		CheckInterval:        seconds(r.CheckInterval),
		MaxRepliesPerThread:  r.MaxRepliesPerThread,
		UpvoteRatioThreshold: r.UpvoteRatioThreshold,
		RateLimitDelay:       seconds(r.RateLimitDelay),
		MinUpvotes:           r.MinUpvotes,
		CommunitySampleSize:  r.CommunitySampleSize,
		KeyInsights:          r.KeyInsights,
	}

	var err error
	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"read_timeout", r.ReadTimeout, &s.ReadTimeout},
		{"write_timeout", r.WriteTimeout, &s.WriteTimeout},
		{"store_timeout", r.StoreTimeout, &s.StoreTimeout},
		{"retry_backoff", r.RetryBackoff, &s.Retry.InitialBackoff},
		{"retry_max_backoff", r.RetryMaxBackoff, &s.Retry.MaxBackoff},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.name, d.raw); err != nil {
			return research.Settings{}, err
		}
	}
	s.Retry.MaxAttempts = r.RetryAttempts
	s.Retry.Multiplier = retry.DefaultPolicy().Multiplier
	return s, nil
}

// GenerateTimeout is the per-call timeout of text generation.
func (c *Config) GenerateTimeout() (time.Duration, error) {
	return parseDuration("generate_timeout", c.Research.GenerateTimeout)
}

// Validate checks the configuration without touching any external system.
func (c *Config) Validate() error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := c.GenerateTimeout(); err != nil {
		return err
	}

	var problems []string
	if c.Research.RetryAttempts < 1 {
		problems = append(problems, "retry_attempts must be >= 1")
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "mock":
	default:
		problems = append(problems, fmt.Sprintf("unknown llm provider %q", c.LLM.Provider))
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "memory", "sqlite", "postgres", "firestore":
	default:
		problems = append(problems, fmt.Sprintf("unknown storage backend %q", c.Storage.Backend))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func parseDuration(name, raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrConfig, name, err)
	}
	return d, nil
}
