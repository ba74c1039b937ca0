package setcalc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mohamadnahleh/set-calculator/calc"
	"github.com/mohamadnahleh/set-calculator/history"
)

// Config is the TOML configuration file.
type Config struct {
	Prompt     string            `toml:"prompt"`
	LogLevel   string            `toml:"log_level"`
	Color      bool              `toml:"color"`
	History    history.Config    `toml:"history"`
	Transforms map[string]string `toml:"transforms"` // name = "expression"
}

// DefaultConfig is used when no config file exists. Values read from a file
// override it key by key.
func DefaultConfig() *Config {
	return &Config{
		Prompt:   calc.DefaultPrompt,
		LogLevel: "info",
		Color:    true,
		History: history.Config{
			Enabled: true,
			Backend: "sqlite",
			Path:    "~/.local/share/setcalc/history.db",
		},
	}
}

// LoadConfig reads the config file at path. An empty path falls back to
// ~/.config/setcalc/config.toml, and to the defaults when that file does not
// exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML over the defaults. Unknown keys are an error, so a
// typo never silently falls back to a default.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "setcalc", "config.toml")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
