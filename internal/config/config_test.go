package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Generation.Model == "" {
		t.Error("expected a default generation model")
	}
	if cfg.Generation.PromptFormat != "alpaca" {
		t.Errorf("expected alpaca default format, got %q", cfg.Generation.PromptFormat)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %g", cfg.Generation.Temperature)
	}
	if cfg.Generation.Seed != 42 {
		t.Errorf("expected default seed 42, got %d", cfg.Generation.Seed)
	}
	if cfg.Grader.Model == "" {
		t.Error("expected a default grader model")
	}
	if len(cfg.EnabledSources()) == 0 {
		t.Error("expected at least one enabled default source")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
generation:
  model: test-model
  prompt_format: deepseek
  temperature: 0.3
  max_new_tokens: 512
  samples: 6
  left_ratio: 0.5
  left_type: implicit
  right_type: explicit
  seed: 7
  runs: 2
grader:
  model: gpt-4o
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Model != "test-model" {
		t.Errorf("model = %q", cfg.Generation.Model)
	}
	if cfg.Generation.LeftType != "implicit" {
		t.Errorf("left_type = %q", cfg.Generation.LeftType)
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "sub", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Model == "" {
		t.Error("expected defaults for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.Generation.Model = "" },
			wantErr: "generation.model",
		},
		{
			name:    "bad prompt format",
			mutate:  func(c *Config) { c.Generation.PromptFormat = "mistral" },
			wantErr: "prompt_format",
		},
		{
			name:    "bad phrasing",
			mutate:  func(c *Config) { c.Generation.LeftType = "subtle" },
			wantErr: "left_type",
		},
		{
			name:    "negative temperature",
			mutate:  func(c *Config) { c.Generation.Temperature = -1 },
			wantErr: "temperature",
		},
		{
			name:    "ratio out of range",
			mutate:  func(c *Config) { c.Generation.LeftRatio = 1.2 },
			wantErr: "left_ratio",
		},
		{
			name: "source without url",
			mutate: func(c *Config) {
				c.Sources = []Source{{Name: "X", Type: "rss"}}
			},
			wantErr: "url is required",
		},
		{
			name: "source with bad scheme",
			mutate: func(c *Config) {
				c.Sources = []Source{{Name: "X", Type: "rss", URL: "ftp://example.com/feed"}}
			},
			wantErr: "scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadDefaults()
			if err != nil {
				t.Fatalf("loadDefaults: %v", err)
			}
			tt.mutate(cfg)
			err = validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"30d", 30},
		{"720h", 30},
		{"", 180},
		{"invalid", 180},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		if got.Hours() != float64(tt.wantDays*24) {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestKeyResolution(t *testing.T) {
	cfg := &Config{}
	t.Setenv("FAIRFRAME_API_KEY", "env-gen")
	t.Setenv("FAIRFRAME_GRADER_KEY", "env-grader")
	if cfg.GenerationKey() != "env-gen" {
		t.Errorf("GenerationKey = %q", cfg.GenerationKey())
	}
	if cfg.GraderKey() != "env-grader" {
		t.Errorf("GraderKey = %q", cfg.GraderKey())
	}

	cfg.Generation.APIKey = "cfg-gen"
	cfg.Grader.APIKey = "cfg-grader"
	if cfg.GenerationKey() != "cfg-gen" {
		t.Error("config key must win over env")
	}
	if cfg.GraderKey() != "cfg-grader" {
		t.Error("config grader key must win over env")
	}
}
