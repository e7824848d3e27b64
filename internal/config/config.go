// Package config loads run configuration and EDC credentials.
//
// Configuration comes from an optional YAML file; credentials come from the
// process environment, optionally seeded from a credentials.env file.
// Credentials never appear in the YAML config, in logs, or on disk beyond
// the env file the operator maintains.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/edcworks/go-casebook/internal/fileutil"
	"github.com/edcworks/go-casebook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrEmptyConfigName    = errors.New("config name cannot be empty")
	ErrConfigParse        = errors.New("failed to parse config")
	ErrMissingCredentials = errors.New("credentials not set")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// Environment variables holding the EDC login pair.
const (
	EnvUsername = "CASEBOOK_USERNAME"
	EnvPassword = "CASEBOOK_PASSWORD"
)

// DefaultCredentialsFile is loaded into the environment when present in the
// working directory.
const DefaultCredentialsFile = "credentials.env"

// DefaultManifestPath is used when neither flag, env, nor config names a
// manifest. Applied last so the flags > env > config precedence holds.
const DefaultManifestPath = "URLs.xlsx"

// Config holds all configuration for a capture run.
type Config struct {
	Manifest ManifestConfig `yaml:"manifest"`
	Output   OutputConfig   `yaml:"output"`
	Session  SessionConfig  `yaml:"session"`
	Capture  CaptureConfig  `yaml:"capture"`
}

// ManifestConfig defines where the CRF list comes from.
type ManifestConfig struct {
	Path string `yaml:"path"` // .xlsx or .csv file (default: URLs.xlsx)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	BaseDir      string `yaml:"baseDir"`      // Parent of the run directory (default: current directory)
	CasebookName string `yaml:"casebookName"` // Merged PDF name (default: "CRF Casebook.pdf")
	KeepImages   bool   `yaml:"keepImages"`   // Retain PNG screenshots
	KeepPagePDFs bool   `yaml:"keepPagePdfs"` // Retain per-page PDFs after merge
}

// SessionConfig defines the login flow. Empty fields use the library
// defaults, which match the Medidata Rave login page.
type SessionConfig struct {
	LoginURL         string `yaml:"loginUrl"`
	UsernameSelector string `yaml:"usernameSelector"`
	PasswordSelector string `yaml:"passwordSelector"`
	SignInSelector   string `yaml:"signInSelector"`
	LandingSelector  string `yaml:"landingSelector"`
	// Timeout bounds each navigation/element wait, e.g. "30s".
	Timeout string `yaml:"timeout"`
	// LoginWait bounds the post-login wait for the landing page, e.g. "60s".
	LoginWait string `yaml:"loginWait"`
}

// CaptureConfig defines page preparation before the screenshot.
type CaptureConfig struct {
	// StripSelectors are removed from each page. Nil uses the defaults;
	// an explicit empty list disables stripping.
	StripSelectors []string `yaml:"stripSelectors"`
	// AnnotateSelects renders dropdown options as visible text.
	AnnotateSelects bool `yaml:"annotateSelects"`
	// SettleDelay is the post-load wait before capture, e.g. "3s".
	SettleDelay    string `yaml:"settleDelay"`
	ViewportWidth  int    `yaml:"viewportWidth"`
	ViewportHeight int    `yaml:"viewportHeight"`
}

// DefaultConfig returns the zero-feature configuration; library defaults
// fill in the session parameters.
func DefaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{AnnotateSelects: true},
	}
}

// ParseTimeout parses a duration field, returning def when the field is
// empty.
func ParseTimeout(field string, def time.Duration) (time.Duration, error) {
	if field == "" {
		return def, nil
	}
	d, err := time.ParseDuration(field)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, field)
	}
	return d, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-casebook/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-casebook", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Credentials is the EDC login pair.
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials reads the login pair from the environment, first loading
// envFile (when it exists) into the process environment. Pass "" to use
// DefaultCredentialsFile. Variables already set in the environment win over
// the file, which is godotenv's behavior.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile == "" {
		envFile = DefaultCredentialsFile
	}
	if fileutil.FileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return Credentials{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	creds := Credentials{
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("%w: set %s and %s in the environment or %s",
			ErrMissingCredentials, EnvUsername, EnvPassword, envFile)
	}
	return creds, nil
}
