// Package config loads surf's runtime configuration.
//
// Configuration is environment-driven: required settings (hub address, agent
// identity, LLM credentials) come from environment variables and their
// absence is fatal at startup. An optional YAML file at ~/.surf/config.yaml
// can supply defaults for the non-secret settings; the environment always
// wins over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Mode selects which input source drives the agent. It is chosen once at
// startup by the entry point, never per request.
type Mode string

const (
	// ModeManual reads tasks from the local terminal prompt.
	ModeManual Mode = "manual"
	// ModeRemote polls the coordination hub for mentions.
	ModeRemote Mode = "remote"
)

// Environment variable names.
const (
	EnvHubURL         = "CORAL_SSE_URL"
	EnvAgentID        = "CORAL_AGENT_ID"
	EnvModelName      = "MODEL_NAME"
	EnvModelProvider  = "MODEL_PROVIDER"
	EnvModelAPIKey    = "MODEL_API_KEY"
	EnvModelBaseURL   = "MODEL_BASE_URL"
	EnvTemperature    = "MODEL_TEMPERATURE"
	EnvMaxTokens      = "MODEL_MAX_TOKENS"
	EnvTimeoutMS      = "TIMEOUT_MS"
	EnvHistorySize    = "CHAT_HISTORY_SIZE"
	EnvBrowserServer  = "SURF_BROWSER_SERVER"
	EnvAllowedSenders = "SURF_ALLOWED_SENDERS"
)

// Defaults.
const (
	DefaultModel          = "gpt-4o"
	DefaultTemperature    = 0.0
	DefaultMaxTokens      = 8000
	DefaultRequestTimeout = 300 * time.Second
	DefaultHistorySize    = 3
	DefaultBrowserServer  = "npx @playwright/mcp@latest"
	DefaultAgentDesc      = "Web agent for web browsing and surfing"

	// DefaultMentionTimeout is how long a single wait_for_mentions call
	// blocks on the hub before returning empty.
	DefaultMentionTimeout = 30 * time.Second

	// DefaultPollInterval is the pause between hub polls that yielded
	// nothing actionable.
	DefaultPollInterval = 1 * time.Second

	// DefaultErrorRetryInterval is the backoff after a transient failure
	// in the producer or consumer loop.
	DefaultErrorRetryInterval = 5 * time.Second
)

// Config holds all runtime settings for one surf process.
type Config struct {
	Mode Mode

	// Hub connection (remote mode only).
	HubURL    string
	AgentID   string
	AgentDesc string

	// LLM settings.
	Model       string
	Provider    string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int64

	// Browser tool server launch command.
	BrowserServer string

	// Request processing.
	RequestTimeout time.Duration
	HistorySize    int

	// Intervals for the polling loops.
	MentionTimeout     time.Duration
	PollInterval       time.Duration
	ErrorRetryInterval time.Duration

	// AllowedSenders holds glob patterns for senders whose mentions are
	// accepted in remote mode. Empty means everyone.
	AllowedSenders []string
}

// Load builds a Config for the given mode from the environment, layered
// over the optional overrides file. A missing required setting returns an
// error; callers treat that as fatal before any connection is opened.
func Load(mode Mode) (*Config, error) {
	cfg := defaults(mode)

	overrides, err := loadFileOverrides()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides.apply(cfg)
	}

	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config populated with built-in defaults.
func defaults(mode Mode) *Config {
	return &Config{
		Mode:               mode,
		AgentDesc:          DefaultAgentDesc,
		Model:              DefaultModel,
		Provider:           "openai",
		Temperature:        DefaultTemperature,
		MaxTokens:          DefaultMaxTokens,
		BrowserServer:      DefaultBrowserServer,
		RequestTimeout:     DefaultRequestTimeout,
		HistorySize:        DefaultHistorySize,
		MentionTimeout:     DefaultMentionTimeout,
		PollInterval:       DefaultPollInterval,
		ErrorRetryInterval: DefaultErrorRetryInterval,
	}
}

// applyEnvironment overlays environment variables onto cfg.
func applyEnvironment(cfg *Config) error {
	setString(&cfg.HubURL, EnvHubURL)
	setString(&cfg.AgentID, EnvAgentID)
	setString(&cfg.Model, EnvModelName)
	setString(&cfg.Provider, EnvModelProvider)
	setString(&cfg.APIKey, EnvModelAPIKey)
	setString(&cfg.BaseURL, EnvModelBaseURL)
	setString(&cfg.BrowserServer, EnvBrowserServer)

	if v := os.Getenv(EnvTemperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTemperature, v, err)
		}
		cfg.Temperature = t
	}

	if v := os.Getenv(EnvMaxTokens); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxTokens, v, err)
		}
		cfg.MaxTokens = n
	}

	if v := os.Getenv(EnvTimeoutMS); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeoutMS, v, err)
		}
		cfg.RequestTimeout = time.Duration(ms) * time.Millisecond
	}

	if v := os.Getenv(EnvHistorySize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", EnvHistorySize, v)
		}
		cfg.HistorySize = n
	}

	if v := os.Getenv(EnvAllowedSenders); v != "" {
		cfg.AllowedSenders = splitPatterns(v)
	}

	return nil
}

// validate checks that the settings required for c.Mode are present.
func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s must be set", EnvModelAPIKey)
	}

	if c.Mode == ModeRemote {
		if c.HubURL == "" || c.AgentID == "" {
			return fmt.Errorf("%s and %s must be set", EnvHubURL, EnvAgentID)
		}
	}

	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
