// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chapterforge/chapterforge-server/internal/chapters"
	"github.com/chapterforge/chapterforge-server/internal/ticks"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Catalog  CatalogConfig
	Generate GenerateConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8089)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// CatalogConfig holds the catalog database configuration.
type CatalogConfig struct {
	// DatabasePath is the sqlite database holding items and segments
	// (default: ~/ChapterForge/catalog.db).
	DatabasePath string
}

// GenerateConfig holds chapter generation configuration.
type GenerateConfig struct {
	// GapSeconds is the threshold at or above which an uncovered span between
	// segments is filled with a placeholder chapter (default: 10).
	GapSeconds int
	// MaxParallelism bounds the worker pool for batch runs (default: 2).
	MaxParallelism int
	// OverwriteExisting regenerates chapter files that already exist.
	OverwriteExisting bool
	// SkipChaptered skips items that already carry embedded chapters.
	SkipChaptered bool

	// Display labels per segment type. An empty label suppresses that
	// type's chapter.
	IntroLabel      string
	OutroLabel      string
	RecapLabel      string
	PreviewLabel    string
	CommercialLabel string
	UnknownLabel    string

	// Placeholder labels for gap-filling chapters.
	PrologueLabel string
	MainLabel     string
	EpilogueLabel string
}

// SynthesisConfig derives the chapter synthesizer configuration.
func (g GenerateConfig) SynthesisConfig() chapters.Config {
	return chapters.Config{
		MaxGapTicks:     ticks.FromSeconds(g.GapSeconds),
		IntroLabel:      g.IntroLabel,
		OutroLabel:      g.OutroLabel,
		RecapLabel:      g.RecapLabel,
		PreviewLabel:    g.PreviewLabel,
		CommercialLabel: g.CommercialLabel,
		UnknownLabel:    g.UnknownLabel,
		PrologueLabel:   g.PrologueLabel,
		MainLabel:       g.MainLabel,
		EpilogueLabel:   g.EpilogueLabel,
	}
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8089)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	catalogPath := flag.String("catalog-db", "", "Path to the catalog sqlite database")

	gapSeconds := flag.String("gap-seconds", "", "Gap threshold in seconds (default: 10)")
	maxParallelism := flag.String("max-parallelism", "", "Max concurrent items per batch run (default: 2)")
	overwrite := flag.String("overwrite", "", "Overwrite existing chapter files (default: false)")
	skipChaptered := flag.String("skip-chaptered", "", "Skip items with embedded chapters (default: false)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "ChapterForge Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8089"),
		},
		Catalog: CatalogConfig{
			DatabasePath: getConfigValue(*catalogPath, "CATALOG_DB", ""),
		},
		Generate: GenerateConfig{
			GapSeconds:        getIntConfigValue(*gapSeconds, "GAP_SECONDS", 10),
			MaxParallelism:    getIntConfigValue(*maxParallelism, "MAX_PARALLELISM", 2),
			OverwriteExisting: getBoolConfigValue(*overwrite, "OVERWRITE_EXISTING", false),
			SkipChaptered:     getBoolConfigValue(*skipChaptered, "SKIP_CHAPTERED", false),
			IntroLabel:        getConfigValue("", "INTRO_LABEL", "Intro"),
			OutroLabel:        getConfigValue("", "OUTRO_LABEL", "Credits"),
			RecapLabel:        getConfigValue("", "RECAP_LABEL", "Recap"),
			PreviewLabel:      getConfigValue("", "PREVIEW_LABEL", "Preview"),
			CommercialLabel:   getConfigValue("", "COMMERCIAL_LABEL", "Commercial"),
			UnknownLabel:      getConfigValue("", "UNKNOWN_LABEL", "Unknown"),
			PrologueLabel:     getConfigValue("", "PROLOGUE_LABEL", "Prologue"),
			MainLabel:         getConfigValue("", "MAIN_LABEL", "Main"),
			EpilogueLabel:     getConfigValue("", "EPILOGUE_LABEL", "Epilogue"),
		},
	}

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate catalog database path.
	if err := cfg.expandCatalogPath(); err != nil {
		return nil, fmt.Errorf("invalid catalog database path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Catalog.DatabasePath == "" {
		return errors.New("catalog database path cannot be empty after expansion")
	}

	if c.Generate.GapSeconds < 0 {
		return fmt.Errorf("gap seconds must not be negative, got %d", c.Generate.GapSeconds)
	}

	if c.Generate.MaxParallelism < 1 {
		return fmt.Errorf("max parallelism must be at least 1, got %d", c.Generate.MaxParallelism)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandCatalogPath expands ~ and makes the path absolute.
// Defaults to ~/ChapterForge/catalog.db if not specified.
func (c *Config) expandCatalogPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "ChapterForge", "catalog.db")

	expanded, err := expandPath(c.Catalog.DatabasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Catalog.DatabasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file values.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
