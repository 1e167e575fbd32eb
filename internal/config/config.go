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

	"github.com/yoojuneho/Fair-or-Framed/internal/opinion"
	"github.com/yoojuneho/Fair-or-Framed/internal/prompt"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Generation holds the defaults for the generation loop. Every value can be
// overridden per invocation from the CLI.
type Generation struct {
	Model        string  `yaml:"model"`
	BaseURL      string  `yaml:"base_url"`
	PromptFormat string  `yaml:"prompt_format"`
	Temperature  float64 `yaml:"temperature"`
	MaxNewTokens int64   `yaml:"max_new_tokens"`
	TopP         float64 `yaml:"top_p,omitempty"`
	Samples      int     `yaml:"samples"`
	LeftRatio    float64 `yaml:"left_ratio"`
	LeftType     string  `yaml:"left_type"`
	RightType    string  `yaml:"right_type"`
	Seed         int64   `yaml:"seed"`
	Runs         int     `yaml:"runs"`
	APIKey       string  `yaml:"api_key,omitempty"`
}

// Grader configures the model-rater used by the classify pass.
type Grader struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// Source is one news feed the topics command scans.
type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Generation Generation `yaml:"generation"`
	Grader     Grader     `yaml:"grader"`
	Retention  string     `yaml:"retention,omitempty"`
	Sources    []Source   `yaml:"sources,omitempty"`
}

// GenerationKey returns the generation endpoint key (config or env var).
// Local vLLM deployments commonly accept any non-empty key.
func (c *Config) GenerationKey() string {
	if c.Generation.APIKey != "" {
		return c.Generation.APIKey
	}
	return os.Getenv("FAIRFRAME_API_KEY")
}

// GraderKey returns the grader endpoint key (config or env var).
func (c *Config) GraderKey() string {
	if c.Grader.APIKey != "" {
		return c.Grader.APIKey
	}
	if k := os.Getenv("FAIRFRAME_GRADER_KEY"); k != "" {
		return k
	}
	return os.Getenv("OPENAI_API_KEY")
}

// RetentionDuration parses the retention setting, supporting "Nd" day syntax.
// Dataset runs default to 180 days.
func (c *Config) RetentionDuration() time.Duration {
	const fallback = 180 * 24 * time.Hour
	if c.Retention == "" {
		return fallback
	}
	if len(c.Retention) > 1 && c.Retention[len(c.Retention)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return fallback
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "fairframe", "config.yaml")
}

func DataPath() string {
	return filepath.Join(xdg.DataHome, "fairframe", "fairframe.db")
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
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	g := cfg.Generation
	if g.Model == "" {
		return fmt.Errorf("generation.model is required")
	}
	if g.PromptFormat != "" {
		if _, err := prompt.ParseFormat(g.PromptFormat); err != nil {
			return fmt.Errorf("generation.prompt_format: %w", err)
		}
	}
	if g.LeftType != "" {
		if _, err := opinion.ParsePhrasing(g.LeftType); err != nil {
			return fmt.Errorf("generation.left_type: %w", err)
		}
	}
	if g.RightType != "" {
		if _, err := opinion.ParsePhrasing(g.RightType); err != nil {
			return fmt.Errorf("generation.right_type: %w", err)
		}
	}
	if g.Temperature < 0 {
		return fmt.Errorf("generation.temperature must be non-negative, got %g", g.Temperature)
	}
	if g.LeftRatio < 0 || g.LeftRatio > 1 {
		return fmt.Errorf("generation.left_ratio must be in [0,1], got %g", g.LeftRatio)
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
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
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}
