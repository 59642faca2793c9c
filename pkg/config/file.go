package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func durationMS(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// overridesFileName is the optional per-user settings file, relative to the
// home directory.
const overridesFileName = ".surf/config.yaml"

// fileOverrides is the YAML shape of the optional settings file. Only
// non-secret settings can be set here; credentials stay in the environment.
type fileOverrides struct {
	Model          string   `yaml:"model"`
	Provider       string   `yaml:"provider"`
	BaseURL        string   `yaml:"base_url"`
	Temperature    *float64 `yaml:"temperature"`
	MaxTokens      *int64   `yaml:"max_tokens"`
	TimeoutMS      *int64   `yaml:"timeout_ms"`
	HistorySize    *int     `yaml:"history_size"`
	BrowserServer  string   `yaml:"browser_server"`
	AgentDesc      string   `yaml:"agent_description"`
	AllowedSenders []string `yaml:"allowed_senders"`
}

// loadFileOverrides reads the optional overrides file. A missing file is
// not an error; a malformed one is.
func loadFileOverrides() (*fileOverrides, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	return readOverridesFile(filepath.Join(home, overridesFileName))
}

func readOverridesFile(path string) (*fileOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var o fileOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &o, nil
}

// apply overlays the file values onto cfg. Zero values are skipped so the
// file only overrides what it sets.
func (o *fileOverrides) apply(cfg *Config) {
	if o.Model != "" {
		cfg.Model = o.Model
	}
	if o.Provider != "" {
		cfg.Provider = o.Provider
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Temperature != nil {
		cfg.Temperature = *o.Temperature
	}
	if o.MaxTokens != nil {
		cfg.MaxTokens = *o.MaxTokens
	}
	if o.TimeoutMS != nil {
		cfg.RequestTimeout = durationMS(*o.TimeoutMS)
	}
	if o.HistorySize != nil && *o.HistorySize > 0 {
		cfg.HistorySize = *o.HistorySize
	}
	if o.BrowserServer != "" {
		cfg.BrowserServer = o.BrowserServer
	}
	if o.AgentDesc != "" {
		cfg.AgentDesc = o.AgentDesc
	}
	if len(o.AllowedSenders) > 0 {
		cfg.AllowedSenders = append([]string(nil), o.AllowedSenders...)
	}
}

// splitPatterns splits a comma-separated pattern list, trimming whitespace
// and dropping empties.
func splitPatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
