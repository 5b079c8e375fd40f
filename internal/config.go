package internal

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	pkgconfig "github.com/starford/jotpad/pkg/config"
)

// Storage drivers.
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
)

// PortEnv names the environment variable that overrides the HTTP port.
const PortEnv = "PORT"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Assets  AssetsConfig      `yaml:"assets"`
	Storage StorageConfig     `yaml:"storage"`
	Notes   NotesConfig       `yaml:"notes"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return c.Notes.Validate()
}

// ApplyEnv applies environment overrides on top of file values. The port
// comes from $PORT when set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(PortEnv); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a number", PortEnv, v)
		}
		c.App.HTTP.Port = port
	}
	return nil
}

// LoadConfig reads the config file at path on top of the defaults (a missing
// file means defaults), applies environment overrides, and validates the
// result.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadOptional(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// The environment wins over the file.
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile, when set, receives a copy of every log record.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AssetsConfig selects where the page bundle is served from.
//
// An empty Dir serves the bundle compiled into the binary. A non-empty Dir
// serves that directory from memory; with Watch set, edits on disk are
// picked up without a restart.
type AssetsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// StorageConfig selects the key-value backend used by the command-line and
// MCP front ends.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(StorageDriverFile, StorageDriverSQLite, StorageDriverMemory)),
		validation.Field(&c.Path, validation.When(c.Driver != StorageDriverMemory, validation.Required)),
	)
}

// NotesConfig holds the polling settings.
type NotesConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(100*time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		Storage: StorageConfig{
			Driver: StorageDriverFile,
			Path:   "./data",
		},
		Notes: NotesConfig{
			Interval: 2 * time.Second,
		},
	}
}
