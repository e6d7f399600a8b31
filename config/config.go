package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Monitoring    MonitoringConfig
	Classifier    ClassifierConfig
	Guardrail     GuardrailConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MonitoringConfig holds the external monitoring backend configuration.
// When PublicKey/SecretKey are empty the gateway falls back to the in-memory
// recorder, which keeps local development working without a backend.
type MonitoringConfig struct {
	BaseURL    string
	PublicKey  string
	SecretKey  string
	Timeout    time.Duration
	MaxRetries int
	BufferSize int
	Workers    int
}

// ClassifierConfig holds the downstream classifier configuration
type ClassifierConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	TaxonomyPath string
}

// GuardrailConfig holds input guardrail configuration
type GuardrailConfig struct {
	// InjectionThreshold is the blocking threshold for the prompt-injection
	// scanner, in [0,1]. Scores at or above it reject the request.
	InjectionThreshold float64
	// BlockedPatterns configures the regex scanner. The regex scanner only
	// annotates the trace; it never gates the request.
	BlockedPatterns []string
	RegexFullMatch  bool
	RegexRedact     bool
	// FailOpen decides whether scanner unavailability lets the request
	// through (true) or rejects it (false).
	FailOpen bool
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Monitoring: MonitoringConfig{
			BaseURL:    getEnv("MONITORING_BASE_URL", "https://cloud.langfuse.com"),
			PublicKey:  getEnv("MONITORING_PUBLIC_KEY", ""),
			SecretKey:  getEnv("MONITORING_SECRET_KEY", ""),
			Timeout:    getEnvAsDuration("MONITORING_TIMEOUT", 10*time.Second),
			MaxRetries: getEnvAsInt("MONITORING_MAX_RETRIES", 2),
			BufferSize: getEnvAsInt("MONITORING_BUFFER_SIZE", 1000),
			Workers:    getEnvAsInt("MONITORING_WORKERS", 2),
		},
		Classifier: ClassifierConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:        getEnv("CLASSIFIER_MODEL", "gpt-4o-mini"),
			Timeout:      getEnvAsDuration("CLASSIFIER_TIMEOUT", 60*time.Second),
			MaxRetries:   getEnvAsInt("CLASSIFIER_MAX_RETRIES", 3),
			TaxonomyPath: getEnv("TAXONOMY_PATH", "taxonomy.json"),
		},
		Guardrail: GuardrailConfig{
			InjectionThreshold: getEnvAsFloat("GUARDRAIL_INJECTION_THRESHOLD", 0.5),
			BlockedPatterns:    getEnvAsSlice("GUARDRAIL_BLOCKED_PATTERNS", nil),
			RegexFullMatch:     getEnvAsBool("GUARDRAIL_REGEX_FULL_MATCH", false),
			RegexRedact:        getEnvAsBool("GUARDRAIL_REGEX_REDACT", false),
			FailOpen:           getEnvAsBool("GUARDRAIL_FAIL_OPEN", false),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Guardrail.InjectionThreshold < 0 || c.Guardrail.InjectionThreshold > 1 {
		return fmt.Errorf("injection threshold must be in [0,1], got %.2f", c.Guardrail.InjectionThreshold)
	}

	if c.Classifier.TaxonomyPath == "" {
		return fmt.Errorf("taxonomy path is required")
	}

	if c.IsProduction() {
		if c.Classifier.APIKey == "" {
			return fmt.Errorf("classifier API key is required in production")
		}
		if !c.Monitoring.Enabled() {
			return fmt.Errorf("monitoring credentials are required in production")
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether the remote monitoring backend is configured
func (c *MonitoringConfig) Enabled() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
