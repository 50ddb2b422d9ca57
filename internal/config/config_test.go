package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default UserAgent identifies adascan", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.UserAgent, "adascan/") {
			t.Errorf("expected UserAgent to identify adascan, got %q", cfg.UserAgent)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default Plan is unset", func(t *testing.T) {
		t.Parallel()
		if cfg.Plan != "" {
			t.Errorf("expected Plan to be empty, got %q", cfg.Plan)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			Targets:   []string{"https://example.com"},
			Timeout:   30 * time.Second,
			BatchSize: 4,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("multiple targets is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = []string{"https://a.example.com", "https://b.example.com"}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty targets returns ErrNoTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("json and markdown together returns ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("valid plan levels pass", func(t *testing.T) {
		t.Parallel()
		for _, plan := range []string{"A", "AA", "AAA", ""} {
			cfg := validConfig()
			cfg.Plan = plan
			if err := cfg.Validate(); err != nil {
				t.Errorf("plan %q: expected no error, got %v", plan, err)
			}
		}
	})

	t.Run("unknown plan returns ErrInvalidPlanLevel", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Plan = "B"

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPlanLevel) {
			t.Errorf("expected ErrInvalidPlanLevel, got %v", err)
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})
}

// TestXDGDirs tests that the XDG helpers end with the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if got := XDGDataDir(); filepath.Base(got) != AppName {
		t.Errorf("XDGDataDir() = %q, expected to end with %q", got, AppName)
	}
	if got := XDGConfigDir(); filepath.Base(got) != AppName {
		t.Errorf("XDGConfigDir() = %q, expected to end with %q", got, AppName)
	}
}

// TestLoadConfigFile tests YAML parsing of the site configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  userAgent: "custom-agent/1.0"
sites:
  staging.example.com:
    cookie: "session=abc123"
    plan: AA
    headers:
      X-Env: staging
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cf.Defaults.UserAgent != "custom-agent/1.0" {
			t.Errorf("unexpected defaults: %+v", cf.Defaults)
		}
		site := cf.Sites["staging.example.com"]
		if site.Cookie != "session=abc123" || site.Plan != "AA" {
			t.Errorf("unexpected site config: %+v", site)
		}
		if site.Headers["X-Env"] != "staging" {
			t.Errorf("unexpected headers: %v", site.Headers)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error for malformed YAML")
		}
	})

	t.Run("empty file initializes sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the explicit-path branch of the search.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "my-config.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("got %q, expected empty string", got)
		}
	})
}

// TestGetSiteConfig tests merging of defaults and per-site overrides.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			UserAgent: "default-agent",
			Plan:      "A",
			Headers:   map[string]string{"X-Base": "yes"},
		},
		Sites: map[string]SiteConfig{
			"staging.example.com": {
				Cookie:  "session=abc",
				Plan:    "AAA",
				Headers: map[string]string{"X-Env": "staging"},
			},
		},
	}

	t.Run("site overrides merge over defaults", func(t *testing.T) {
		t.Parallel()
		got := cf.GetSiteConfig("staging.example.com")
		if got.Cookie != "session=abc" {
			t.Errorf("got cookie %q, expected site value", got.Cookie)
		}
		if got.Plan != "AAA" {
			t.Errorf("got plan %q, expected AAA", got.Plan)
		}
		if got.UserAgent != "default-agent" {
			t.Errorf("got user agent %q, expected default value", got.UserAgent)
		}
		if got.Headers["X-Env"] != "staging" {
			t.Errorf("expected site header present, got %v", got.Headers)
		}
		if got.Headers["X-Base"] != "yes" {
			t.Errorf("expected default header present, got %v", got.Headers)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()
		got := cf.GetSiteConfig("unknown.example.com")
		if got.UserAgent != "default-agent" || got.Plan != "A" {
			t.Errorf("unexpected config for unknown host: %+v", got)
		}
		if got.Cookie != "" {
			t.Errorf("got cookie %q, expected empty", got.Cookie)
		}
	})

	t.Run("merge does not pollute defaults", func(t *testing.T) {
		t.Parallel()
		cf := &File{
			Defaults: SiteConfig{
				Headers: map[string]string{"X-Base": "yes"},
			},
			Sites: map[string]SiteConfig{
				"staging.example.com": {
					Headers: map[string]string{"X-Env": "staging"},
				},
			},
		}

		_ = cf.GetSiteConfig("staging.example.com")

		if _, leaked := cf.Defaults.Headers["X-Env"]; leaked {
			t.Error("site header leaked into Defaults.Headers")
		}
		other := cf.GetSiteConfig("other.example.com")
		if _, leaked := other.Headers["X-Env"]; leaked {
			t.Errorf("unrelated host inherited site header: %v", other.Headers)
		}
	})
}
