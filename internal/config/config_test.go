package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrada/kijobs/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kijobs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Keywords.High) == 0 || len(cfg.Keywords.Medium) == 0 {
		t.Error("default keyword tiers must not be empty")
	}
	if len(cfg.Keywords.ExcludeTitles) == 0 {
		t.Error("default exclusion list must not be empty")
	}
	if cfg.Store.Backend != "json" || cfg.Store.Path != "data/seen_jobs.json" {
		t.Errorf("default store = %+v", cfg.Store)
	}
	if cfg.Ntfy.Topic != "andrada-ki-jobs" {
		t.Errorf("default topic = %q", cfg.Ntfy.Topic)
	}
	if got := cfg.EnabledSources(); len(got) != 3 {
		t.Errorf("default enabled sources = %v, want all 3", got)
	}
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
keywords:
  high: [golang]
  medium: [testing]
  exclude_titles: [senior]
sources:
  - name: ki_doktorand
    enabled: true
  - name: ki_varbi
    enabled: false
store:
  backend: sqlite
  path: /tmp/seen.db
ntfy:
  topic: my-topic
  timeout: 5s
http:
  timeout: 45s
  detail_min_delay: 1s
dashboard:
  title: My Tracker
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Keywords.High) != 1 || cfg.Keywords.High[0] != "golang" {
		t.Errorf("keywords replaced wholesale, got %v", cfg.Keywords.High)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/tmp/seen.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Ntfy.Topic != "my-topic" || cfg.Ntfy.Timeout != 5*time.Second {
		t.Errorf("ntfy = %+v", cfg.Ntfy)
	}
	if cfg.Ntfy.BaseURL != "https://ntfy.sh" {
		t.Errorf("unset base_url should keep the default, got %q", cfg.Ntfy.BaseURL)
	}
	if cfg.HTTP.Timeout != 45*time.Second || cfg.HTTP.DetailMinDelay != time.Second {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.HTTP.DetailTimeout != 15*time.Second {
		t.Errorf("unset detail_timeout should keep the default, got %v", cfg.HTTP.DetailTimeout)
	}
	if cfg.Dashboard.Title != "My Tracker" || cfg.Dashboard.Path != "docs/index.html" {
		t.Errorf("dashboard = %+v", cfg.Dashboard)
	}

	got := cfg.EnabledSources()
	if len(got) != 1 || got[0] != model.SourceKIDoctoral {
		t.Errorf("EnabledSources() = %v", got)
	}
}

func TestLoad_EmptyTopicDisablesPush(t *testing.T) {
	path := writeConfig(t, `
ntfy:
  topic: ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Ntfy.Topic != "" {
		t.Errorf("topic = %q, want empty", cfg.Ntfy.Topic)
	}
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("KIJOBS_TEST_TOPIC", "secret-topic")

	path := writeConfig(t, `
ntfy:
  topic: ${KIJOBS_TEST_TOPIC}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Ntfy.Topic != "secret-topic" {
		t.Errorf("topic = %q, want secret-topic", cfg.Ntfy.Topic)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid yaml",
			content: "keywords: [unclosed",
		},
		{
			name: "no keywords",
			content: `
keywords:
  high: []
  medium: []
`,
		},
		{
			name: "no enabled sources",
			content: `
sources:
  - name: ki_doktorand
    enabled: false
`,
		},
		{
			name: "unknown store backend",
			content: `
store:
  backend: redis
`,
		},
		{
			name: "bad duration",
			content: `
http:
  timeout: eventually
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
