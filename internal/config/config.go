package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// Matching contains the matcher tunables: minimum confidence, signal weights,
// and the candidate pre-filter toggle.
type Matching struct {
	Threshold      float64 `toml:"threshold"`
	TextWeight     float64 `toml:"text_weight"`
	DurationWeight float64 `toml:"duration_weight"`
	ArtistWeight   float64 `toml:"artist_weight"`
	Blocking       bool    `toml:"blocking"`
}

// Metrics contains the cross-platform score weights and the view-count
// reference cap used for log scaling.
type Metrics struct {
	PopularityWeight float64 `toml:"popularity_weight"`
	ViewsWeight      float64 `toml:"views_weight"`
	ConfidenceWeight float64 `toml:"confidence_weight"`
	ViewCap          int64   `toml:"view_cap"`
}

// Aggregation contains regional rollup tunables.
type Aggregation struct {
	TopN int `toml:"top_n"`
}

// Load contains persistence batching and retry policy.
type Load struct {
	BatchSize            int `toml:"batch_size"`
	RetryLimit           int `toml:"retry_limit"`
	RetryBackoffMS       int `toml:"retry_backoff_ms"`
	MaxConcurrentBatches int `toml:"max_concurrent_batches"`
	BatchTimeoutSeconds  int `toml:"batch_timeout_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for chartsync.
//
// Sections by subsystem:
//   - Paths: data drop directory, log directory, SQLite database path
//   - Matching: confidence threshold, signal weights, blocking toggle
//   - Metrics: cross-platform score weights and view reference cap
//   - Aggregation: top-N ranking size
//   - Load: batch size, retry policy, concurrency, batch timeout
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Matching    Matching    `toml:"matching"`
	Metrics     Metrics     `toml:"metrics"`
	Aggregation Aggregation `toml:"aggregation"`
	Load        Load        `toml:"load"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chartsync/config.toml")
}

// LoadFile locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and weights normalized.
func LoadFile(path string) (*Config, string, bool, error) {
	// A .env alongside the working directory may supply overrides; absence is fine.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CHARTSYNC_DATA_DIR")); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CHARTSYNC_DATABASE")); v != "" {
		cfg.Paths.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("CHARTSYNC_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CHARTSYNC_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chartsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for a pipeline run.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.DatabasePath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
