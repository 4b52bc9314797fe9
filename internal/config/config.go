package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is given and the file exists.
const DefaultConfigPath = "launchdash.yaml"

// Config holds all launchdash configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DataConfig struct {
	Primary    string `yaml:"primary" env:"LAUNCHDASH_DATA_PRIMARY"`
	Secondary  string `yaml:"secondary" env:"LAUNCHDASH_DATA_SECONDARY"`
	SitePrefix string `yaml:"site_prefix" env:"LAUNCHDASH_DATA_SITE_PREFIX"`
	StrictJoin bool   `yaml:"strict_join" env:"LAUNCHDASH_DATA_STRICT_JOIN"`
}

type ServerConfig struct {
	Host          string        `yaml:"host" env:"LAUNCHDASH_HOST"`
	Port          int           `yaml:"port" env:"LAUNCHDASH_PORT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env:"LAUNCHDASH_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env:"LAUNCHDASH_WRITE_TIMEOUT"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace" env:"LAUNCHDASH_SHUTDOWN_GRACE"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DashboardConfig struct {
	Title        string  `yaml:"title" env:"LAUNCHDASH_TITLE"`
	SliderMin    float64 `yaml:"slider_min"`
	SliderMax    float64 `yaml:"slider_max"`
	SliderStep   float64 `yaml:"slider_step"`
	MarkInterval float64 `yaml:"mark_interval"`
	ChartWidth   int     `yaml:"chart_width" env:"LAUNCHDASH_CHART_WIDTH"`
	ChartHeight  int     `yaml:"chart_height" env:"LAUNCHDASH_CHART_HEIGHT"`
}

type StorageConfig struct {
	DSN string `yaml:"dsn" env:"LAUNCHDASH_STORAGE_DSN"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" env:"LAUNCHDASH_LOG_LEVEL"`
	Format     string `yaml:"format" env:"LAUNCHDASH_LOG_FORMAT"`
	File       string `yaml:"file" env:"LAUNCHDASH_LOG_FILE"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// ApplyEnv overlays LAUNCHDASH_* environment variables onto cfg. Unset
// variables leave the current value untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration. An explicit path is loaded,
// or created with defaults when missing. Without one, DefaultConfigPath is
// used if present. Environment overrides are applied last and the result
// is validated.
func Resolve(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case path != "":
		cfg, err = LoadOrCreateAt(path)
	case fileExists(DefaultConfigPath):
		cfg, err = Load(DefaultConfigPath)
	default:
		cfg = DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.Primary) == "" {
		errs = append(errs, errors.New("data.primary must be set"))
	}
	if strings.TrimSpace(c.Data.Secondary) == "" {
		errs = append(errs, errors.New("data.secondary must be set"))
	}
	if c.Data.SitePrefix == "" {
		errs = append(errs, errors.New("data.site_prefix must not be empty"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Dashboard.SliderMin >= c.Dashboard.SliderMax {
		errs = append(errs, fmt.Errorf("dashboard.slider_min %g must be below slider_max %g",
			c.Dashboard.SliderMin, c.Dashboard.SliderMax))
	}
	if c.Dashboard.SliderStep <= 0 {
		errs = append(errs, errors.New("dashboard.slider_step must be positive"))
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		errs = append(errs, errors.New("dashboard chart size must be positive"))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, errors.New("storage.dsn must be set"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
