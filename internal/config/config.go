package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/approute/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "approute.json"

	// DefaultAppDir is the default app directory, relative to the config.
	DefaultAppDir = "app"

	// DefaultPort is the default development server port.
	DefaultPort = 3100

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultInterval is the default rescan interval of the dev server.
	DefaultInterval = "1s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "approute"
)

// DefaultExtensions are the leaf file extensions used when none are set.
var DefaultExtensions = []string{".go"}

// Config represents the complete approute.json configuration.
type Config struct {
	// App describes the directory tree routes are scanned from.
	App AppConfig `json:"app"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev"`

	// Publish contains manifest publishing configuration.
	Publish PublishConfig `json:"publish"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// AppConfig contains the app directory settings.
type AppConfig struct {
	// Dir is the app directory.
	Dir string `json:"dir,omitempty"`

	// Extensions are the page/route file extensions (e.g. ".go", ".tsx").
	Extensions []string `json:"extensions,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Interval is how often the app directory is rescanned (e.g. "500ms").
	Interval string `json:"interval,omitempty"`
}

// PublishConfig contains manifest publishing settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix the manifest is written under.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing (needed by most local stores).
	PathStyle bool `json:"pathStyle,omitempty"`

	// Gzip compresses the uploaded manifest.
	Gzip bool `json:"gzip,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		App: AppConfig{
			Dir:        DefaultAppDir,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Dev: DevConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Interval: DefaultInterval,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for approute.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No approute.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("C002").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("C002").
			WithDetail("Failed to parse approute.json: " + err.Error()).
			Wrap(err)
		if offset, ok := jsonOffset(err); ok {
			line, col := lineCol(data, offset)
			e.WithLocation(path, line, col)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// jsonOffset returns the byte offset a JSON decoding error refers to.
func jsonOffset(err error) (int64, bool) {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return syntaxErr.Offset, true
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return typeErr.Offset, true
	}
	return 0, false
}

// lineCol converts the offset reported by encoding/json, which points just
// past the offending byte, into a 1-based line and column.
func lineCol(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset-1 && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C002").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C002").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.App.Dir == "" {
		c.App.Dir = DefaultAppDir
	}
	if len(c.App.Extensions) == 0 {
		c.App.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Interval == "" {
		c.Dev.Interval = DefaultInterval
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("C003").
			WithDetail("dev.port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	if _, err := c.Interval(); err != nil {
		return errors.New("C003").
			WithDetail(fmt.Sprintf("dev.interval %q is not a positive duration", c.Dev.Interval)).
			WithSuggestion(`Use a Go duration such as "500ms" or "2s"`).
			Wrap(err)
	}
	for _, ext := range c.App.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.New("C003").
				WithDetail(fmt.Sprintf("app.extensions entry %q must start with a dot", ext))
		}
	}
	return nil
}

// Interval returns the parsed dev rescan interval.
func (c *Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Dev.Interval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", d)
	}
	return d, nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// AppPath returns the absolute path to the app directory.
func (c *Config) AppPath() string {
	if filepath.IsAbs(c.App.Dir) {
		return c.App.Dir
	}
	return filepath.Join(c.Dir(), c.App.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing approute.json, or an error if not found.
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
			return "", errors.New("C001").
				WithDetail("No approute.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
