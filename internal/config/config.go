package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/renderer"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "batchdom.json"

	// DefaultPreviewPort is the default preview server port.
	DefaultPreviewPort = 7300

	// DefaultPreviewHost is the default preview server host.
	DefaultPreviewHost = "localhost"

	// DefaultPreviewInterval is the default delay between replayed steps.
	DefaultPreviewInterval = "500ms"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "batchdom"
)

// Config represents batchdom.json.
type Config struct {
	Runtime RuntimeConfig `json:"runtime,omitempty"`
	Log     LogConfig     `json:"log,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
	Preview PreviewConfig `json:"preview,omitempty"`
	Capture CaptureConfig `json:"capture,omitempty"`

	configPath string
}

// RuntimeConfig configures renderers.
type RuntimeConfig struct {
	// ComponentTag is the container element created for child components.
	ComponentTag string `json:"componentTag,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
}

// PreviewConfig configures the live preview server.
type PreviewConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Interval is the delay between replayed steps (e.g. "250ms").
	Interval string `json:"interval,omitempty"`
}

// CaptureConfig configures where recordings are fetched from.
type CaptureConfig struct {
	S3Region   string `json:"s3Region,omitempty"`
	S3Endpoint string `json:"s3Endpoint,omitempty"`
}

// New returns a configuration with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads batchdom.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).WithDetail(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Runtime.ComponentTag == "" {
		c.Runtime.ComponentTag = renderer.DefaultComponentTag
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultPreviewHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Preview.Interval == "" {
		c.Preview.Interval = DefaultPreviewInterval
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return invalid("preview.port must be between 0 and 65535")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be \"text\" or \"json\", got " + strconv.Quote(c.Log.Format))
	}
	if _, err := c.Preview.StepInterval(); err != nil {
		return err
	}
	if strings.ContainsAny(c.Runtime.ComponentTag, " <>/\"'=") {
		return invalid("runtime.componentTag is not a valid tag name: " + strconv.Quote(c.Runtime.ComponentTag))
	}
	return nil
}

func invalid(detail string) error {
	return errors.New(errors.CodeConfigInvalid).WithDetail(detail)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, invalid("log.level: " + err.Error())
	}
	return level, nil
}

// Address returns the preview listen address.
func (p PreviewConfig) Address() string {
	return p.Host + ":" + strconv.Itoa(p.Port)
}

// StepInterval parses Interval.
func (p PreviewConfig) StepInterval() (time.Duration, error) {
	d, err := time.ParseDuration(p.Interval)
	if err != nil || d < 0 {
		return 0, invalid("preview.interval must be a non-negative duration, got " + strconv.Quote(p.Interval))
	}
	return d, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the first directory holding
// batchdom.json. It returns "" when there is none.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest batchdom.json above the working
// directory, or the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	if root == "" {
		return New(), nil
	}
	return Load(root)
}
