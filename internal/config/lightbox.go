package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/lightbox/internal/fetch"
	"github.com/ytget/lightbox/internal/model"
)

// Zoom bounds
const (
	DefaultMinimumScale = 1.0
	DefaultMaximumScale = 3.0
)

// Default labels
const (
	DefaultCloseText  = "Close"
	DefaultDeleteText = "Delete"
)

// LightboxConfig describes how the viewer looks and how images are fetched
type LightboxConfig struct {
	HideStatusBar bool                `yaml:"hide_status_bar"`
	Preload       int                 `yaml:"preload"`
	PageIndicator PageIndicatorConfig `yaml:"page_indicator"`
	CloseButton   ButtonConfig        `yaml:"close_button"`
	DeleteButton  ButtonConfig        `yaml:"delete_button"`
	InfoLabel     InfoLabelConfig     `yaml:"info_label"`
	Zoom          ZoomConfig          `yaml:"zoom"`
	Fetch         FetchConfig         `yaml:"fetch"`

	// Images is an optional gallery manifest
	Images []model.LightboxImage `yaml:"images"`
}

type PageIndicatorConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ButtonConfig struct {
	Enabled bool   `yaml:"enabled"`
	Text    string `yaml:"text"`
}

type InfoLabelConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ZoomConfig struct {
	MinimumScale float64 `yaml:"minimum_scale"`
	MaximumScale float64 `yaml:"maximum_scale"`
}

type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	MaxBytes    int64         `yaml:"max_bytes"`
	MaxParallel int           `yaml:"max_parallel"`
}

// Default returns the stock lightbox configuration. Preload 0 means every page.
func Default() *LightboxConfig {
	return &LightboxConfig{
		HideStatusBar: true,
		Preload:       0,
		PageIndicator: PageIndicatorConfig{Enabled: true},
		CloseButton:   ButtonConfig{Enabled: true, Text: DefaultCloseText},
		DeleteButton:  ButtonConfig{Enabled: false, Text: DefaultDeleteText},
		InfoLabel:     InfoLabelConfig{Enabled: true},
		Zoom:          ZoomConfig{MinimumScale: DefaultMinimumScale, MaximumScale: DefaultMaximumScale},
		Fetch: FetchConfig{
			Timeout:     fetch.DefaultTimeout,
			UserAgent:   fetch.DefaultUserAgent,
			MaxParallel: DefaultMaxParallel,
		},
	}
}

// Validate reports every invalid setting
func (c *LightboxConfig) Validate() error {
	var errs []error
	if c.Preload < 0 {
		errs = append(errs, fmt.Errorf("preload must not be negative: %d", c.Preload))
	}
	if c.Zoom.MinimumScale <= 0 {
		errs = append(errs, fmt.Errorf("zoom minimum_scale must be positive: %g", c.Zoom.MinimumScale))
	}
	if c.Zoom.MaximumScale < c.Zoom.MinimumScale {
		errs = append(errs, fmt.Errorf("zoom maximum_scale %g is below minimum_scale %g", c.Zoom.MaximumScale, c.Zoom.MinimumScale))
	}
	if c.Fetch.Timeout < 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must not be negative: %s", c.Fetch.Timeout))
	}
	if c.Fetch.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("fetch max_bytes must not be negative: %d", c.Fetch.MaxBytes))
	}
	for i, img := range c.Images {
		if strings.TrimSpace(img.ImageURL) == "" {
			errs = append(errs, fmt.Errorf("images[%d]: url is required", i))
		}
	}
	return errors.Join(errs...)
}

// FetchOptions translates the fetch section into fetcher options
func (c *LightboxConfig) FetchOptions() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithUserAgent(c.Fetch.UserAgent),
		fetch.WithMaxBytes(c.Fetch.MaxBytes),
	}
	if c.Fetch.Timeout > 0 {
		opts = append(opts, fetch.WithTimeout(c.Fetch.Timeout))
	}
	return opts
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := strings.TrimSuffix(strings.TrimPrefix(string(match), "${"), "}")

		// ${VAR:-default}
		name, fallback, hasFallback := strings.Cut(expr, ":-")
		if val, ok := os.LookupEnv(name); ok {
			return []byte(val)
		}
		if hasFallback {
			return []byte(fallback)
		}
		return match
	})
}

// Load reads a YAML lightbox configuration over the defaults
func Load(path string) (*LightboxConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user-supplied config path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(expandEnvVars(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return cfg, nil
}
