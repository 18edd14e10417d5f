// Package config loads the line editor settings used by the nrl command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/nrl/internal/errors"
)

const (
	configDirName  = "nrl"
	configFileName = "config.yaml"
)

// Frame values.
const (
	FrameNone       = "none"
	FrameLine       = "line"
	FrameBackground = "background"
)

// SemanticPrompts values.
const (
	SemanticAuto = "auto"
	SemanticOn   = "on"
	SemanticOff  = "off"
)

// Config holds the editor settings. Pointer fields distinguish "unset" from
// an explicit zero value when merging.
type Config struct {
	Prompt          *string `yaml:"prompt"`
	Hint            *string `yaml:"hint"`
	Frame           string  `yaml:"frame"`
	FrameColor      string  `yaml:"frame_color"`
	Multiline       *bool   `yaml:"multiline"`
	EscapeTimeoutMS *int    `yaml:"escape_timeout_ms"`
	SemanticPrompts string  `yaml:"semantic_prompts"`
	LogFile         string  `yaml:"log_file"`
}

// DefaultPath returns $XDG_CONFIG_HOME/nrl/config.yaml, falling back to
// ~/.config/nrl/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configDirName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// Load reads and parses the config file at path.
// Returns nil, nil if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.ConfigLoadFailed(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, fmt.Errorf("failed to parse config: %w", err))
	}
	return &cfg, nil
}

// LoadAndMerge loads the config file and merges it with defaults.
// If no file exists, returns the default config.
func LoadAndMerge(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	defaults := Default()
	if cfg == nil {
		return defaults, nil
	}
	return Merge(cfg, defaults), nil
}

// EscapeTimeout returns the escape flush delay as a duration.
func (c *Config) EscapeTimeout() time.Duration {
	if c.EscapeTimeoutMS == nil {
		return time.Duration(DefaultEscapeTimeoutMS) * time.Millisecond
	}
	return time.Duration(*c.EscapeTimeoutMS) * time.Millisecond
}

// PromptText returns the prompt. An explicit empty prompt stays empty.
func (c *Config) PromptText() string {
	if c.Prompt == nil {
		return ""
	}
	return *c.Prompt
}

// HintText returns the hint shown while the input is empty.
func (c *Config) HintText() string {
	if c.Hint == nil {
		return ""
	}
	return *c.Hint
}

// IsMultiline reports the effective multiline setting.
func (c *Config) IsMultiline() bool {
	return c.Multiline == nil || *c.Multiline
}
