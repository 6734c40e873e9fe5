// Package config provides configuration management for klutch.
// Settings are read from a YAML file, completed with defaults and finally
// overridden by KLUTCH_* environment variables.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Content source
	BaseURL     string `yaml:"base_url"`
	ListingPath string `yaml:"listing_path"`

	// Storage
	CacheDir    string `yaml:"cache_dir,omitempty"`
	DownloadDir string `yaml:"download_dir,omitempty"`

	// Network settings
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
	UserAgent         string        `yaml:"user_agent"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
	LogFile      string `yaml:"log_file,omitempty"`
}

// envOverrides mirrors the settings that may be overridden from the environment.
// Zero values mean "not set".
type envOverrides struct {
	BaseURL           string        `env:"KLUTCH_BASE_URL"`
	ListingPath       string        `env:"KLUTCH_LISTING_PATH"`
	CacheDir          string        `env:"KLUTCH_CACHE_DIR"`
	DownloadDir       string        `env:"KLUTCH_DOWNLOAD_DIR"`
	HTTPTimeout       time.Duration `env:"KLUTCH_HTTP_TIMEOUT"`
	InactivityTimeout time.Duration `env:"KLUTCH_INACTIVITY_TIMEOUT"`
	LogLevel          string        `env:"KLUTCH_LOG_LEVEL"`
	LogFile           string        `env:"KLUTCH_LOG_FILE"`
}

// Default configuration values.
const (
	// DefaultBaseURL is the host serving the video listing.
	DefaultBaseURL = "https://gist.githubusercontent.com/poudyalanil/ca84582cbeb4fc123a13290a586da925/raw/14a27bd0bcd0cd323b35ad79cf3b493dddf6216b"

	// DefaultListingPath is the listing document relative to the base URL.
	DefaultListingPath = "videos.json"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultInactivityTimeout aborts a download when no bytes arrive for this long.
	DefaultInactivityTimeout = 60 * time.Second

	// DefaultMaxConcurrent bounds concurrent thumbnail fetches.
	DefaultMaxConcurrent = 4

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "klutch"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cacheDir, err := fsutil.GetImageCacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), fsutil.AppName, fsutil.ImageCacheDirName)
	}
	downloadDir, err := fsutil.GetDownloadDir()
	if err != nil {
		downloadDir = filepath.Join(os.TempDir(), fsutil.AppName, fsutil.DownloadsDirName)
	}

	return &Config{
		Settings: Settings{
			BaseURL:           DefaultBaseURL,
			ListingPath:       DefaultListingPath,
			CacheDir:          cacheDir,
			DownloadDir:       downloadDir,
			HTTPTimeout:       DefaultHTTPTimeout,
			InactivityTimeout: DefaultInactivityTimeout,
			MaxConcurrent:     DefaultMaxConcurrent,
			UserAgent:         DefaultUserAgent,
			OutputFormat:      "text",
			LogLevel:          "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// ApplyEnv overrides settings with the KLUTCH_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return errors.Wrap(errors.ErrConfigParse, fmt.Sprintf("parse env: %v", err))
	}

	s := &c.Settings
	setString(&s.BaseURL, overrides.BaseURL)
	setString(&s.ListingPath, overrides.ListingPath)
	setString(&s.CacheDir, overrides.CacheDir)
	setString(&s.DownloadDir, overrides.DownloadDir)
	setString(&s.LogLevel, overrides.LogLevel)
	setString(&s.LogFile, overrides.LogFile)
	if overrides.HTTPTimeout != 0 {
		s.HTTPTimeout = overrides.HTTPTimeout
	}
	if overrides.InactivityTimeout != 0 {
		s.InactivityTimeout = overrides.InactivityTimeout
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	if err := fsutil.WriteFileAtomic(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var sb strings.Builder
	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return []byte(sb.String()), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errors.ErrBaseURLInvalid, "got %q", s.BaseURL)
	}
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.InactivityTimeout < 0 {
		return errors.ErrInactivityNegative
	}
	if s.MaxConcurrent < 1 {
		return errors.ErrMaxConcurrentInvalid
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q (must be text or json)", s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.Wrapf(errors.ErrInvalidLogLevel, "%q (must be debug, info, warn or error)", s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}

// ListingURL returns the absolute URL of the video listing.
func (c *Config) ListingURL() string {
	return strings.TrimRight(c.Settings.BaseURL, "/") + "/" + strings.TrimLeft(c.Settings.ListingPath, "/")
}

// GetCacheDir returns the image cache directory from settings.
func (c *Config) GetCacheDir() string {
	return c.Settings.CacheDir
}

// GetDownloadDir returns the download directory from settings.
func (c *Config) GetDownloadDir() string {
	return c.Settings.DownloadDir
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.BaseURL == "" {
		c.Settings.BaseURL = defaults.Settings.BaseURL
	}
	if c.Settings.ListingPath == "" {
		c.Settings.ListingPath = defaults.Settings.ListingPath
	}
	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.DownloadDir == "" {
		c.Settings.DownloadDir = defaults.Settings.DownloadDir
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.InactivityTimeout == 0 {
		c.Settings.InactivityTimeout = defaults.Settings.InactivityTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
