// Package config loads the index daemon configuration.
//
// The file is named by the --config flag or, when the flag is empty, by the
// DOTTORRENT_CONFIG environment variable. Without either, Default is used.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no path is given.
const EnvVar = "DOTTORRENT_CONFIG"

// Log formats accepted by log_format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config configures cmd/indexd.
type Config struct {
	// Listen is the HTTP listen address.
	// Default: :8080
	Listen string `yaml:"listen"`

	// TorrentDirs are scanned for *.torrent files at startup.
	TorrentDirs []string `yaml:"torrent_dirs"`

	// LogLevel is a logrus level name.
	// Default: info
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: text
	LogFormat string `yaml:"log_format"`

	// MaxBodyBytes caps uploaded .torrent files.
	// Default: 10 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns the configuration used for omitted fields.
func Default() *Config {
	return &Config{
		Listen:       ":8080",
		LogLevel:     "info",
		LogFormat:    FormatText,
		MaxBodyBytes: 10 * 1024 * 1024,
	}
}

// Path picks the config file: the flag value if set, otherwise EnvVar.
// An empty result means no file.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads the YAML file at path over Default and validates the result.
// An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch strings.ToLower(c.LogFormat) {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("log_format %q: want %s or %s", c.LogFormat, FormatText, FormatJSON)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

// ConfigureLogger applies the log level and format to logger.
func (c *Config) ConfigureLogger(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log_level")
	}
	logger.SetLevel(level)

	if strings.ToLower(c.LogFormat) == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
