package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"fastexplorer/internal/domain"
	"fastexplorer/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	StartDir string         `toml:"start_dir"`
	Search   SearchSettings `toml:"search"`
	Watch    WatchSettings  `toml:"watch"`
	UI       UISettings     `toml:"ui"`
	Log      LogSettings    `toml:"log"`
}

// SearchSettings tunes the search engine
type SearchSettings struct {
	MinWorkers          int `toml:"min_workers"`
	MaxWorkers          int `toml:"max_workers"`
	FanoutDepth         int `toml:"fanout_depth"`          // subdirectories below this depth are scanned inline
	CancelCheckInterval int `toml:"cancel_check_interval"` // entries between cancellation checks
	ProgressIntervalMS  int `toml:"progress_interval_ms"`
	ResultsBatch        int `toml:"results_batch"` // matches between result pushes
	LocalTimeoutSecs    int `toml:"local_timeout_secs"`
	NetworkTimeoutSecs  int `toml:"network_timeout_secs"`
}

// ProgressInterval returns the progress ticker period
func (s SearchSettings) ProgressInterval() time.Duration {
	return time.Duration(s.ProgressIntervalMS) * time.Millisecond
}

// Timeout returns the prompt timeout for a local or network volume
func (s SearchSettings) Timeout(network bool) time.Duration {
	if network {
		return time.Duration(s.NetworkTimeoutSecs) * time.Second
	}
	return time.Duration(s.LocalTimeoutSecs) * time.Second
}

// WatchSettings controls live refresh of the browsed directory
type WatchSettings struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Debounce returns the window in which change events coalesce
func (w WatchSettings) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHidden  bool     `toml:"show_hidden"`
	Sort        string   `toml:"sort"`
	SortDesc    bool     `toml:"sort_desc"`
	QuickAccess []string `toml:"quick_access"`
}

// SortCriteria returns the configured sort column, defaulting to name
func (u UISettings) SortCriteria() domain.SortCriteria {
	switch c := domain.SortCriteria(u.Sort); c {
	case domain.SortByName, domain.SortBySize, domain.SortByType, domain.SortByDate:
		return c
	}
	return domain.SortByName
}

// LogSettings mirrors logging.Config
type LogSettings struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by the per-user config file
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support.
// An empty path selects the default location.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "fastexplorer", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults when none exists
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// A missing file yields an error wrapping fs.ErrNotExist.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	cfg := &Config{
		Version:  1,
		StartDir: homeDir,
		Watch:    WatchSettings{Enabled: true},
		UI:       UISettings{Sort: string(domain.SortByName)},
	}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero or out-of-range values with defaults
func (c *Config) Normalize() {
	s := &c.Search
	if s.MinWorkers <= 0 {
		s.MinWorkers = 2
	}
	if s.MaxWorkers <= 0 {
		s.MaxWorkers = 8
	}
	if s.MaxWorkers < s.MinWorkers {
		s.MaxWorkers = s.MinWorkers
	}
	if s.FanoutDepth <= 0 {
		s.FanoutDepth = 50
	}
	if s.CancelCheckInterval <= 0 {
		s.CancelCheckInterval = 100
	}
	if s.ProgressIntervalMS <= 0 {
		s.ProgressIntervalMS = 500
	}
	if s.ResultsBatch <= 0 {
		s.ResultsBatch = 20
	}
	if s.LocalTimeoutSecs <= 0 {
		s.LocalTimeoutSecs = 120
	}
	if s.NetworkTimeoutSecs <= 0 {
		s.NetworkTimeoutSecs = 300
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 100
	}
	if c.UI.Sort == "" {
		c.UI.Sort = string(domain.SortByName)
	}
	if c.Version == 0 {
		c.Version = 1
	}
}
