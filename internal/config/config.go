package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/configs/env"
)

// DefaultExtensionPattern selects the source and text files that are compared.
const DefaultExtensionPattern = `.*\.(c|cpp|py|java|js|html|css|php|sql|txt)$`

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// Kafka (optional)
	KafkaBrokers []string
	KafkaTopic   string

	// Corpus
	ReferenceCorpusDir string
	WorkspaceDir       string
	ExtensionPatterns  []string
	MinTokenLength     int
	FetchDepth         int

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentChecks int
	ScoringWorkers      int

	// Computation
	CheckTimeout time.Duration

	// Logging
	LogLevel string

	// Server
	ServerPort  string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "originality:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "originality:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "originality:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// Kafka
	cfg.KafkaBrokers = env.GetEnvList("KAFKA_BROKERS", nil)
	cfg.KafkaTopic = env.GetEnv("KAFKA_TOPIC", "originality.reports")

	// Corpus
	cfg.ReferenceCorpusDir = env.GetEnv("REFERENCE_CORPUS_DIR", "")
	cfg.WorkspaceDir = env.GetEnv("CLONE_WORKSPACE_DIR", filepath.Join(os.TempDir(), "aegis-origin"))
	cfg.ExtensionPatterns = env.GetEnvList("EXTENSION_PATTERNS", []string{DefaultExtensionPattern})
	cfg.MinTokenLength = env.GetEnvInt("MIN_TOKEN_LENGTH", 1)
	cfg.FetchDepth = env.GetEnvInt("FETCH_DEPTH", 1)

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "aegis-origin")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentChecks = env.GetEnvInt("MAX_CONCURRENT_CHECKS", 2)
	cfg.ScoringWorkers = env.GetEnvInt("SCORING_WORKERS", 0)

	// Computation
	timeoutMinutes := env.GetEnvInt("CHECK_TIMEOUT_MINUTES", 30)
	cfg.CheckTimeout = time.Duration(timeoutMinutes) * time.Minute

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")

	return cfg, nil
}

// ValidateAnalysis checks the settings needed to run a single analysis.
func (c *Config) ValidateAnalysis() error {
	if c.ReferenceCorpusDir == "" {
		return fmt.Errorf("REFERENCE_CORPUS_DIR is required")
	}
	if len(c.ExtensionPatterns) == 0 {
		return fmt.Errorf("EXTENSION_PATTERNS must contain at least one pattern")
	}
	if _, err := c.CompilePatterns(); err != nil {
		return err
	}
	if c.MinTokenLength < 1 {
		return fmt.Errorf("MIN_TOKEN_LENGTH must be at least 1")
	}
	if c.FetchDepth < 0 {
		return fmt.Errorf("FETCH_DEPTH must not be negative")
	}
	return nil
}

// Validate checks the settings needed by the API server.
func (c *Config) Validate() error {
	if err := c.ValidateAnalysis(); err != nil {
		return err
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.WorkspaceDir == "" {
		return fmt.Errorf("CLONE_WORKSPACE_DIR is required")
	}
	if c.MaxConcurrentChecks <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_CHECKS must be greater than 0")
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("CHECK_TIMEOUT_MINUTES must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	return nil
}

// CompilePatterns compiles ExtensionPatterns. Patterns are anchored at the
// start of the filename.
func (c *Config) CompilePatterns() ([]*regexp.Regexp, error) {
	return CompilePatterns(c.ExtensionPatterns)
}

func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(`^(?:` + pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid extension pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
