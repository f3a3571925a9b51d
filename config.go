package priosched

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the serialisable configuration of the CLI. The zero value of
// every nested field falls back to DefaultConfig.
type Config struct {
	ContextSwitchTime int           `json:"contextSwitchTime" yaml:"contextSwitchTime"`
	Log               LogConfig     `json:"log" yaml:"log"`
	Report            ReportConfig  `json:"report" yaml:"report"`
	Tracing           TracingConfig `json:"tracing" yaml:"tracing"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text or json
	File   string `json:"file" yaml:"file"`     // empty means stderr
}

type ReportConfig struct {
	Format string `json:"format" yaml:"format"` // text, table or gantt
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	File    string `json:"file" yaml:"file"` // empty means stdout
}

func DefaultConfig() *Config {
	return &Config{
		ContextSwitchTime: 0,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			Format: FORMAT_TEXT,
		},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.ContextSwitchTime < 0 {
		return fmt.Errorf("%w: contextSwitchTime must be >= 0, got %d", ErrInvalidConfig, c.ContextSwitchTime)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Report.Format {
	case FORMAT_TEXT, FORMAT_TABLE, FORMAT_GANTT:
	default:
		return fmt.Errorf("%w: report.format %q", ErrInvalidConfig, c.Report.Format)
	}
	return nil
}

// DecodeConfig overlays data on top of DefaultConfig and validates it.
func DecodeConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Config loads a YAML (or JSON) config from URL.
func (l *Loader) Config(ctx context.Context, URL string) (*Config, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	return DecodeConfig(data)
}
