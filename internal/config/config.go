package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	DefaultFeedURL    = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"
	DefaultPageSize   = 12
	DefaultLazyMargin = 200
	DefaultMediaRate  = 8
)

type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // "json" or "rss"
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Sources       []Source `yaml:"sources"`
	PageSize      int      `yaml:"page_size,omitempty"`
	LazyMargin    int      `yaml:"lazy_margin,omitempty"`
	FetchTimeout  string   `yaml:"fetch_timeout,omitempty"`
	MediaTimeout  string   `yaml:"media_timeout,omitempty"`
	MediaRate     float64  `yaml:"media_rate,omitempty"`
	DefaultWindow string   `yaml:"default_window,omitempty"`
	LogLevel      string   `yaml:"log_level,omitempty"`
}

// Feed returns the first enabled source, falling back to the public JSON feed.
func (c *Config) Feed() Source {
	for _, s := range c.Sources {
		if s.Enabled {
			return s
		}
	}
	return Source{Name: "APOD", Type: "json", URL: DefaultFeedURL, Enabled: true}
}

// OverrideFeed replaces the catalog source with a single JSON feed at rawURL.
func (c *Config) OverrideFeed(rawURL string) error {
	src := Source{Name: "custom", Type: "json", URL: rawURL, Enabled: true}
	if err := validateSource(0, src); err != nil {
		return err
	}
	c.Sources = []Source{src}
	return nil
}

func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

func (c *Config) GetLazyMargin() int {
	if c.LazyMargin <= 0 {
		return DefaultLazyMargin
	}
	return c.LazyMargin
}

func (c *Config) GetMediaRate() float64 {
	if c.MediaRate <= 0 {
		return DefaultMediaRate
	}
	return c.MediaRate
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	return parseDuration(c.FetchTimeout, 30*time.Second)
}

func (c *Config) MediaTimeoutDuration() time.Duration {
	return parseDuration(c.MediaTimeout, 15*time.Second)
}

// WindowDays is how many days the range inputs cover when prefilled.
func (c *Config) WindowDays() int {
	d := parseDuration(c.DefaultWindow, 7*24*time.Hour)
	days := int(d / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// ParseDuration accepts Go durations plus an "Nd" day suffix.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "spacegallery", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: seed the file, but the embedded defaults win either way.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaults(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaults fills fields the user file left empty.
func mergeDefaults(cfg, defaults *Config) {
	if len(cfg.Sources) == 0 {
		cfg.Sources = append([]Source(nil), defaults.Sources...)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.LazyMargin == 0 {
		cfg.LazyMargin = defaults.LazyMargin
	}
	if cfg.FetchTimeout == "" {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.MediaTimeout == "" {
		cfg.MediaTimeout = defaults.MediaTimeout
	}
	if cfg.MediaRate == 0 {
		cfg.MediaRate = defaults.MediaRate
	}
	if cfg.DefaultWindow == "" {
		cfg.DefaultWindow = defaults.DefaultWindow
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for i, s := range cfg.Sources {
		if err := validateSource(i, s); err != nil {
			return err
		}
	}
	if cfg.PageSize < 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	return nil
}

func validateSource(i int, s Source) error {
	validTypes := map[string]bool{"json": true, "rss": true}
	if s.Name == "" {
		return fmt.Errorf("source %d: name is required", i)
	}
	if s.URL == "" {
		return fmt.Errorf("source %q: url is required", s.Name)
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
	}
	if !validTypes[s.Type] {
		return fmt.Errorf("source %q: unknown type %q (valid: json, rss)", s.Name, s.Type)
	}
	return nil
}
