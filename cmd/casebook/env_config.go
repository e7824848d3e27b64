package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edcworks/go-casebook/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // CASEBOOK_CONFIG: config file path or name
	Manifest     string // CASEBOOK_MANIFEST: manifest file path
	OutputDir    string // CASEBOOK_OUTPUT_DIR: parent of the date-stamped run directory
	CasebookName string // CASEBOOK_NAME: merged PDF file name
	Timeout      string // CASEBOOK_TIMEOUT: per-navigation timeout
}

// knownEnvVars lists valid CASEBOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CASEBOOK_CONFIG":     true,
	"CASEBOOK_MANIFEST":   true,
	"CASEBOOK_OUTPUT_DIR": true,
	"CASEBOOK_NAME":       true,
	"CASEBOOK_TIMEOUT":    true,
	config.EnvUsername:    true,
	config.EnvPassword:    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:   os.Getenv("CASEBOOK_CONFIG"),
		Manifest:     os.Getenv("CASEBOOK_MANIFEST"),
		OutputDir:    os.Getenv("CASEBOOK_OUTPUT_DIR"),
		CasebookName: os.Getenv("CASEBOOK_NAME"),
		Timeout:      os.Getenv("CASEBOOK_TIMEOUT"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized CASEBOOK_* variables.
// Helps catch typos like CASEBOOK_MANIFST instead of CASEBOOK_MANIFEST.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CASEBOOK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later in resolveRunConfig).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Manifest != "" && cfg.Manifest.Path == "" {
		cfg.Manifest.Path = env.Manifest
	}
	if env.OutputDir != "" && cfg.Output.BaseDir == "" {
		cfg.Output.BaseDir = env.OutputDir
	}
	if env.CasebookName != "" && cfg.Output.CasebookName == "" {
		cfg.Output.CasebookName = env.CasebookName
	}
	if env.Timeout != "" && cfg.Session.Timeout == "" {
		cfg.Session.Timeout = env.Timeout
	}
}
