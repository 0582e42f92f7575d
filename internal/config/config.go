package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reconciler"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "reactor.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// used when no reactor.json exists.
	YAMLConfigFileName = "reactor.yaml"

	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultDispatchBuffer is the default capacity of the dispatch queue.
	DefaultDispatchBuffer = 256

	// DefaultSnapshotDir is the default directory of the disk and bolt
	// snapshot stores, relative to the project root.
	DefaultSnapshotDir = ".reactor/snapshots"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Snapshot drivers.
const (
	DriverDisk = "disk"
	DriverBolt = "bolt"
	DriverS3   = "s3"
)

// Config represents the complete reactor configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Reconciler contains reconciliation policy.
	Reconciler ReconcilerConfig `json:"reconciler" yaml:"reconciler"`

	// Devtools contains the devtools server configuration.
	Devtools DevtoolsConfig `json:"devtools" yaml:"devtools"`

	// Snapshot contains tree snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ReconcilerConfig mirrors reconciler.Config.
type ReconcilerConfig struct {
	// SkipEqualHostUpdates skips renderer updates for hosts whose props
	// did not change.
	SkipEqualHostUpdates bool `json:"skipEqualHostUpdates" yaml:"skipEqualHostUpdates"`

	// StrictHooks keeps the previous children of a component whose render
	// broke the hook order.
	StrictHooks bool `json:"strictHooks" yaml:"strictHooks"`

	// DispatchBuffer is the capacity of the dispatch queue.
	DispatchBuffer int `json:"dispatchBuffer,omitempty" yaml:"dispatchBuffer,omitempty"`
}

// DevtoolsConfig contains devtools server settings.
type DevtoolsConfig struct {
	// Enabled starts the devtools server with "reactor serve".
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// SnapshotConfig selects and configures the snapshot store.
type SnapshotConfig struct {
	// Driver is one of "disk", "bolt" or "s3".
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// Dir is the directory of the disk and bolt stores.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region is the AWS region. Empty uses the default AWS configuration.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// JSON switches the log handler to JSON output.
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Reconciler: ReconcilerConfig{
			SkipEqualHostUpdates: true,
			DispatchBuffer:       DefaultDispatchBuffer,
		},
		Devtools: DevtoolsConfig{
			Addr: DefaultDevtoolsAddr,
		},
		Snapshot: SnapshotConfig{
			Driver: DriverDisk,
			Dir:    DefaultSnapshotDir,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// reactor.json first and reactor.yaml second.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("RE100").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or run without a config to use the defaults")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("RE100").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("RE102").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("RE102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path has a YAML extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("RE102").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("RE102").Wrap(err)
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
	if c.Reconciler.DispatchBuffer == 0 {
		c.Reconciler.DispatchBuffer = DefaultDispatchBuffer
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Snapshot.Driver == "" {
		c.Snapshot.Driver = DriverDisk
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Reconciler.DispatchBuffer < 0 {
		return errors.New("RE101").
			WithDetail("reconciler.dispatchBuffer must not be negative")
	}

	if c.Devtools.Enabled {
		if _, _, err := net.SplitHostPort(c.Devtools.Addr); err != nil {
			return errors.New("RE101").
				WithDetail("devtools.addr must be host:port, got " + c.Devtools.Addr).
				Wrap(err)
		}
	}

	switch c.Snapshot.Driver {
	case DriverDisk, DriverBolt:
	case DriverS3:
		if c.Snapshot.Bucket == "" {
			return errors.New("RE101").
				WithDetail("snapshot.bucket is required for the s3 driver")
		}
	default:
		return errors.New("RE101").
			WithDetail("snapshot.driver must be disk, bolt or s3, got " + c.Snapshot.Driver)
	}

	if _, err := c.LogLevel(); err != nil {
		return errors.New("RE101").
			WithDetail("log.level must be debug, info, warn or error, got " + c.Log.Level).
			Wrap(err)
	}
	return nil
}

// ReconcilerConfig returns the reconciliation policy.
func (c *Config) ReconcilerConfig() reconciler.Config {
	return reconciler.Config{
		SkipEqualHostUpdates: c.Reconciler.SkipEqualHostUpdates,
		StrictHooks:          c.Reconciler.StrictHooks,
		DispatchBuffer:       c.Reconciler.DispatchBuffer,
	}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// SnapshotDir returns the absolute path of the snapshot directory.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
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
			return "", errors.New("RE100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has a config file.
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
