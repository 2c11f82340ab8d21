package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/trident/internal/domain"
)

// Config holds the trident API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds search backend connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig holds strategy weights, thresholds, and degradation knobs.
// Enable flags are pointers so an absent key means enabled, not false.
type SearchConfig struct {
	ExactWeight         float64 `yaml:"exact_weight"`
	FuzzyWeight         float64 `yaml:"fuzzy_weight"`
	SemanticWeight      float64 `yaml:"semantic_weight"`
	ExactScoreNorm      float64 `yaml:"exact_score_norm"`
	FuzzyAccuracyTarget float64 `yaml:"fuzzy_accuracy_target"`
	SemanticThreshold   float64 `yaml:"semantic_threshold"`
	QueryTimeoutMs      int     `yaml:"query_timeout_ms"`
	EnableFuzzy         *bool   `yaml:"enable_fuzzy"`
	EnableSemantic      *bool   `yaml:"enable_semantic"`
	PreencodedOnly      bool    `yaml:"preencoded_only"`
}

// CacheConfig holds result and embedding cache settings.
type CacheConfig struct {
	SearchTTLSec      int `yaml:"search_ttl_sec"`
	SearchMaxEntries  int `yaml:"search_max_entries"`
	EmbeddingCapacity int `yaml:"embedding_capacity"`
}

// StorageConfig holds index naming settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	IndexName string `yaml:"index_name"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Search.ExactWeight == 0 {
		c.Search.ExactWeight = 1.0
	}
	if c.Search.FuzzyWeight == 0 {
		c.Search.FuzzyWeight = 0.7
	}
	if c.Search.SemanticWeight == 0 {
		c.Search.SemanticWeight = 0.9
	}
	if c.Search.ExactScoreNorm == 0 {
		c.Search.ExactScoreNorm = 10.0
	}
	if c.Search.FuzzyAccuracyTarget == 0 {
		c.Search.FuzzyAccuracyTarget = 0.8
	}
	if c.Search.SemanticThreshold == 0 {
		c.Search.SemanticThreshold = 0.7
	}
	if c.Search.QueryTimeoutMs <= 0 {
		c.Search.QueryTimeoutMs = 500
	}
	if c.Search.EnableFuzzy == nil {
		c.Search.EnableFuzzy = boolPtr(true)
	}
	if c.Search.EnableSemantic == nil {
		c.Search.EnableSemantic = boolPtr(true)
	}
	if c.Cache.SearchTTLSec <= 0 {
		c.Cache.SearchTTLSec = 300
	}
	if c.Cache.SearchMaxEntries <= 0 {
		c.Cache.SearchMaxEntries = 1024
	}
	if c.Cache.EmbeddingCapacity <= 0 {
		c.Cache.EmbeddingCapacity = 1000
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "trident:doc:"
	}
	if c.Storage.IndexName == "" {
		c.Storage.IndexName = "trident-docs"
	}
}

// Validate checks the configuration for correctness. Weight and threshold
// errors are fatal at load, never deferred to query time.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if err := c.Weights().Validate(); err != nil {
		return err
	}
	if c.Search.ExactScoreNorm <= 0 {
		return fmt.Errorf("search.exact_score_norm must be positive, got %g", c.Search.ExactScoreNorm)
	}
	if c.Search.FuzzyAccuracyTarget < 0 || c.Search.FuzzyAccuracyTarget > 1 {
		return fmt.Errorf("search.fuzzy_accuracy_target must be in [0, 1], got %g",
			c.Search.FuzzyAccuracyTarget)
	}
	if c.Search.SemanticThreshold < 0 || c.Search.SemanticThreshold > 1 {
		return fmt.Errorf("search.semantic_threshold must be in [0, 1], got %g",
			c.Search.SemanticThreshold)
	}
	if *c.Search.EnableSemantic && !c.Search.PreencodedOnly && c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required when the semantic strategy is enabled")
	}
	return nil
}

// Weights returns the configured strategy rank weights.
func (c *Config) Weights() domain.RankWeights {
	return domain.RankWeights{
		Exact:    c.Search.ExactWeight,
		Fuzzy:    c.Search.FuzzyWeight,
		Semantic: c.Search.SemanticWeight,
	}
}

// QueryTimeout returns the per-query strategy deadline.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Search.QueryTimeoutMs) * time.Millisecond
}

// SearchTTL returns the result cache entry lifetime.
func (c *Config) SearchTTL() time.Duration {
	return time.Duration(c.Cache.SearchTTLSec) * time.Second
}

func boolPtr(b bool) *bool { return &b }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
