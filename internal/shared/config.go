package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Notion    NotionConfig    `toml:"notion"`
	Database  DatabaseConfig  `toml:"database"`
	Cache     CacheConfig     `toml:"cache"`
	Exporters ExportersConfig `toml:"exporters"`
}

// NotionConfig contains Notion API credentials and query settings.
type NotionConfig struct {
	Token         string `toml:"token"`
	DatabaseID    string `toml:"database_id"`
	TitleProperty string `toml:"title_property"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig contains sync cache storage settings.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// ExportersConfig contains per-exporter configuration sections.
type ExportersConfig struct {
	AppleCalendar AppleCalendarConfig `toml:"apple_calendar"`
}

// AppleCalendarConfig contains Apple Calendar exporter settings.
type AppleCalendarConfig struct {
	CalendarName  string   `toml:"calendar_name"`
	AccountName   string   `toml:"account_name"`
	EventPrefix   string   `toml:"event_prefix"`
	SkipCompleted bool     `toml:"skip_completed"`
	DoneStatuses  []string `toml:"done_statuses"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// ResolveConfig loads the first config file that exists, trying the explicit
// path (when non-empty), ./config.toml, then ~/.config/notioncal/config.toml.
func ResolveConfig(explicit string) (*Config, string, error) {
	candidates := []string{}
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "config.toml")
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "notioncal", "config.toml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return nil, path, err
			}
			return config, path, nil
		}
	}

	return nil, "", fmt.Errorf("%w: tried %v", ErrMissingConfig, candidates)
}

// Validate checks that required Notion credentials are present.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("%w: notion.token", ErrMissingCredentials)
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("%w: notion.database_id", ErrMissingCredentials)
	}
	return nil
}

// CacheDir returns the configured sync cache directory, defaulting to
// ~/.cache/notioncal.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "notioncal"), nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
