package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrada/kijobs/internal/model"
)

// Config is the root configuration for the kijobs pipeline.
type Config struct {
	Keywords  KeywordConfig
	Sources   []SourceConfig
	Store     StoreConfig
	Ntfy      NtfyConfig
	HTTP      HTTPConfig
	Dashboard DashboardConfig
}

// KeywordConfig holds the two priority tiers and the title exclusion list.
// Matching is case-insensitive whole-word; exclusion is case-insensitive substring.
type KeywordConfig struct {
	High          []string `yaml:"high"`
	Medium        []string `yaml:"medium"`
	ExcludeTitles []string `yaml:"exclude_titles"`
}

// SourceConfig enables or disables one listing site.
type SourceConfig struct {
	Name    model.Source `yaml:"name"`
	Enabled bool         `yaml:"enabled"`
}

// StoreConfig selects the seen-jobs persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`
}

// NtfyConfig controls the push-notification relay. An empty topic disables
// pushes and falls back to the log notifier.
type NtfyConfig struct {
	BaseURL string `yaml:"base_url"`
	Topic   string `yaml:"topic"`
	Timeout time.Duration
	Summary bool `yaml:"summary"` // send a per-run summary push after the new-job pushes
}

// HTTPConfig controls outbound scraping requests.
type HTTPConfig struct {
	Timeout        time.Duration // listing-page fetch timeout
	DetailTimeout  time.Duration // detail-page fetch timeout
	DetailMinDelay time.Duration // minimum gap between detail fetches to the same host
	UserAgent      string
}

// DashboardConfig controls the static HTML output.
type DashboardConfig struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// Default returns the built-in configuration. The keyword tiers mirror the
// research profile this tracker was built for; a config file can replace them
// wholesale.
func Default() *Config {
	return &Config{
		Keywords: KeywordConfig{
			High: []string{
				"organoid", "ipsc", "induced pluripotent", "stem cell",
				"neuroscience", "neurodevelopmental", "neural stem",
				"brain organoid", "single-cell", "scrna-seq", "spatial transcriptomics",
			},
			Medium: []string{
				"crispr", "genome editing", "developmental biology",
				"cell culture", "bioinformatics", "computational biology",
			},
			ExcludeTitles: []string{
				"postdoc", "postdoctoral", "master thesis", "master's thesis",
				"internship", "amanuens",
			},
		},
		Sources: []SourceConfig{
			{Name: model.SourceKIDoctoral, Enabled: true},
			{Name: model.SourceKIStaff, Enabled: true},
			{Name: model.SourceAcademicPositions, Enabled: true},
		},
		Store: StoreConfig{
			Backend: "json",
			Path:    "data/seen_jobs.json",
		},
		Ntfy: NtfyConfig{
			BaseURL: "https://ntfy.sh",
			Topic:   "andrada-ki-jobs",
			Timeout: 10 * time.Second,
			Summary: false,
		},
		HTTP: HTTPConfig{
			Timeout:        30 * time.Second,
			DetailTimeout:  15 * time.Second,
			DetailMinDelay: 500 * time.Millisecond,
			UserAgent:      "Mozilla/5.0 (compatible; KI-Job-Scraper/1.0)",
		},
		Dashboard: DashboardConfig{
			Path:  "docs/index.html",
			Title: "KI Research Position Tracker",
		},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	Keywords  *KeywordConfig  `yaml:"keywords"`
	Sources   []SourceConfig  `yaml:"sources"`
	Store     *StoreConfig    `yaml:"store"`
	Ntfy      *rawNtfyConfig  `yaml:"ntfy"`
	HTTP      *rawHTTPConfig  `yaml:"http"`
	Dashboard *DashboardConfig `yaml:"dashboard"`
}

type rawNtfyConfig struct {
	BaseURL string `yaml:"base_url"`
	Topic   string `yaml:"topic"`
	Timeout string `yaml:"timeout"`
	Summary *bool  `yaml:"summary"`
}

type rawHTTPConfig struct {
	Timeout        string `yaml:"timeout"`
	DetailTimeout  string `yaml:"detail_timeout"`
	DetailMinDelay string `yaml:"detail_min_delay"`
	UserAgent      string `yaml:"user_agent"`
}

// Load reads the YAML config file at path, overlays it on the defaults,
// validates, and returns the result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (e.g. ntfy topic from a secret).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if raw.Keywords != nil {
		cfg.Keywords = *raw.Keywords
	}
	if raw.Sources != nil {
		cfg.Sources = raw.Sources
	}
	if raw.Store != nil {
		if raw.Store.Backend != "" {
			cfg.Store.Backend = raw.Store.Backend
		}
		if raw.Store.Path != "" {
			cfg.Store.Path = raw.Store.Path
		}
	}
	if raw.Ntfy != nil {
		if raw.Ntfy.BaseURL != "" {
			cfg.Ntfy.BaseURL = raw.Ntfy.BaseURL
		}
		cfg.Ntfy.Topic = raw.Ntfy.Topic
		if raw.Ntfy.Timeout != "" {
			d, err := time.ParseDuration(raw.Ntfy.Timeout)
			if err != nil {
				return nil, fmt.Errorf("parse ntfy.timeout %q: %w", raw.Ntfy.Timeout, err)
			}
			cfg.Ntfy.Timeout = d
		}
		if raw.Ntfy.Summary != nil {
			cfg.Ntfy.Summary = *raw.Ntfy.Summary
		}
	}
	if raw.HTTP != nil {
		if raw.HTTP.Timeout != "" {
			d, err := time.ParseDuration(raw.HTTP.Timeout)
			if err != nil {
				return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
			}
			cfg.HTTP.Timeout = d
		}
		if raw.HTTP.DetailTimeout != "" {
			d, err := time.ParseDuration(raw.HTTP.DetailTimeout)
			if err != nil {
				return nil, fmt.Errorf("parse http.detail_timeout %q: %w", raw.HTTP.DetailTimeout, err)
			}
			cfg.HTTP.DetailTimeout = d
		}
		if raw.HTTP.DetailMinDelay != "" {
			d, err := time.ParseDuration(raw.HTTP.DetailMinDelay)
			if err != nil {
				return nil, fmt.Errorf("parse http.detail_min_delay %q: %w", raw.HTTP.DetailMinDelay, err)
			}
			cfg.HTTP.DetailMinDelay = d
		}
		if raw.HTTP.UserAgent != "" {
			cfg.HTTP.UserAgent = raw.HTTP.UserAgent
		}
	}
	if raw.Dashboard != nil {
		if raw.Dashboard.Path != "" {
			cfg.Dashboard.Path = raw.Dashboard.Path
		}
		if raw.Dashboard.Title != "" {
			cfg.Dashboard.Title = raw.Dashboard.Title
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Keywords.High)+len(cfg.Keywords.Medium) == 0 {
		return fmt.Errorf("at least one keyword must be configured")
	}

	enabled := 0
	for _, s := range cfg.Sources {
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Store.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("store.backend must be \"json\" or \"sqlite\", got %q", cfg.Store.Backend)
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	if cfg.Ntfy.Timeout <= 0 {
		return fmt.Errorf("ntfy.timeout must be positive, got %v", cfg.Ntfy.Timeout)
	}
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}

	if cfg.Dashboard.Path == "" {
		return fmt.Errorf("dashboard.path must not be empty")
	}

	return nil
}

// EnabledSources returns the sources turned on in config order.
func (c *Config) EnabledSources() []model.Source {
	var out []model.Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s.Name)
		}
	}
	return out
}
