package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// Config holds the resumatch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Cache     CacheConfig     `yaml:"cache"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
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

// DatabaseConfig holds the optional Redis connection. Without addrs the
// service keeps caches, budgets and analyses in process memory.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis when addrs set, else memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig lists semantic embedding providers in fallback order.
// TF-IDF always follows the last one.
type EmbeddingConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// Embedding provider kinds.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ProviderConfig holds one embedding provider.
type ProviderConfig struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"` // openai, gemini
	APIKey     string       `yaml:"api_key"`
	BaseURL    string       `yaml:"base_url"`
	Model      string       `yaml:"model"`
	Dimensions int          `yaml:"dimensions"`
	Budget     BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit      int64   `yaml:"daily_token_limit"`       // 0 = unlimited
	MonthlyTokenLimit    int64   `yaml:"monthly_token_limit"`     // 0 = unlimited
	CostPerMillionTokens float64 `yaml:"cost_per_million_tokens"` // reporting only
	Action               string  `yaml:"action"`                  // "reject" | "warn" (default)
}

// ScoringConfig holds the aggregation weights keyed by component name.
type ScoringConfig struct {
	Weights map[string]float64 `yaml:"weights"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// AnalysisConfig holds request limits and result retention.
type AnalysisConfig struct {
	MaxDocumentChars int   `yaml:"max_document_chars"`
	MaxUploadBytes   int64 `yaml:"max_upload_bytes"`
	MaxBatchSize     int   `yaml:"max_batch_size"`
	BatchConcurrency int   `yaml:"batch_concurrency"`
	TimeoutSec       int   `yaml:"timeout_sec"`
	ResultTTLSec     int   `yaml:"result_ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration after ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// Weights returns the configured scoring weights, or the defaults when none are set.
func (c *Config) Weights() domsim.Weights {
	if len(c.Scoring.Weights) == 0 {
		return domsim.DefaultWeights()
	}
	w := make(domsim.Weights, len(c.Scoring.Weights))
	for k, v := range c.Scoring.Weights {
		w[domsim.Component(k)] = v
	}
	return w
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
		if len(c.Database.Addrs) > 0 {
			c.Database.Driver = "redis"
		}
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "resumatch:"
	}
	for i := range c.Embedding.Providers {
		p := &c.Embedding.Providers[i]
		if p.Name == "" {
			p.Name = p.Kind
		}
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Analysis.MaxDocumentChars <= 0 {
		c.Analysis.MaxDocumentChars = 200_000
	}
	if c.Analysis.MaxUploadBytes <= 0 {
		c.Analysis.MaxUploadBytes = 10 << 20
	}
	if c.Analysis.MaxBatchSize <= 0 {
		c.Analysis.MaxBatchSize = 10
	}
	if c.Analysis.BatchConcurrency <= 0 {
		c.Analysis.BatchConcurrency = 4
	}
	if c.Analysis.TimeoutSec <= 0 {
		c.Analysis.TimeoutSec = 30
	}
	if c.Analysis.ResultTTLSec <= 0 {
		c.Analysis.ResultTTLSec = 24 * 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "memory":
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"memory\", got %q", c.Database.Driver)
	}

	seen := make(map[string]bool, len(c.Embedding.Providers))
	for i, p := range c.Embedding.Providers {
		switch p.Kind {
		case ProviderOpenAI, ProviderGemini:
		default:
			return fmt.Errorf("embedding.providers[%d].kind must be %q or %q, got %q",
				i, ProviderOpenAI, ProviderGemini, p.Kind)
		}
		if seen[p.Name] {
			return fmt.Errorf("embedding.providers[%d].name %q is duplicated", i, p.Name)
		}
		seen[p.Name] = true
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"embedding.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				p.Name, p.Budget.Action,
			)
		}
	}

	if err := c.Weights().Validate(domsim.ConfigSumTolerance); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	return nil
}

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
