// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const envConfigPath = "DIFFSCOPE_CONFIG"

var defaultFiles = []string{".diffscope.json", ".diffscope.toml"}

type Config struct {
	LogLevel string `json:"log_level" toml:"log_level"` // debug, info, warn, error
	Color    bool   `json:"color" toml:"color"`

	Git struct {
		Binary       string   `json:"binary" toml:"binary"`
		ContextLines int      `json:"context_lines" toml:"context_lines"`
		Timeout      Duration `json:"timeout" toml:"timeout"`
	} `json:"git" toml:"git"`

	Stat struct {
		Width int `json:"width" toml:"width"`
	} `json:"stat" toml:"stat"`

	Watch struct {
		Debounce  Duration `json:"debounce" toml:"debounce"`
		CacheSize int      `json:"cache_size" toml:"cache_size"`
	} `json:"watch" toml:"watch"`
}

// Duration reads "30s"-style strings from JSON and TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func Default() *Config {
	var c Config
	c.LogLevel = "warn"
	c.Color = true
	c.Git.Binary = "git"
	c.Git.ContextLines = 3
	c.Git.Timeout = Duration{30 * time.Second}
	c.Stat.Width = 40
	c.Watch.Debounce = Duration{300 * time.Millisecond}
	c.Watch.CacheSize = 16
	return &c
}

// Resolve picks the config file to load: the explicit path, then the
// DIFFSCOPE_CONFIG environment variable, then a dotfile in dir. An empty
// result means defaults only.
func Resolve(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfigPath); env != "" {
		return env
	}
	for _, name := range defaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads path over the defaults. TOML is chosen by the .toml
// extension, anything else is read as JSON.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Git.Binary == "":
		return fmt.Errorf("git.binary must not be empty")
	case c.Git.ContextLines < 0:
		return fmt.Errorf("git.context_lines must not be negative")
	case c.Git.Timeout.Duration <= 0:
		return fmt.Errorf("git.timeout must be positive")
	case c.Stat.Width <= 0:
		return fmt.Errorf("stat.width must be positive")
	case c.Watch.Debounce.Duration < 0:
		return fmt.Errorf("watch.debounce must not be negative")
	case c.Watch.CacheSize <= 0:
		return fmt.Errorf("watch.cache_size must be positive")
	}
	return nil
}
