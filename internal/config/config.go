package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	AI        AIConfig
	Scraper   ScraperConfig
	Quiz      QuizConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors" yaml:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Runtime flag, set from the command line rather than the config file.
	MigrateOnly bool `mapstructure:"-" yaml:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret" yaml:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours" yaml:"expire_hours"`
}

// AdminConfig holds the bcrypt hash of the operator token. An empty hash
// disables the whole admin surface.
type AdminConfig struct {
	TokenHash string `mapstructure:"token_hash" yaml:"token_hash"`
}

type AIConfig struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	Model     string `mapstructure:"model" yaml:"model"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

type ScraperConfig struct {
	BaseURL      string  `mapstructure:"base_url" yaml:"base_url"`
	ArtistID     string  `mapstructure:"artist_id" yaml:"artist_id"`
	DelaySeconds float64 `mapstructure:"delay_seconds" yaml:"delay_seconds"`
	UserAgent    string  `mapstructure:"user_agent" yaml:"user_agent"`
}

type QuizConfig struct {
	QuestionCount     int         `mapstructure:"question_count" yaml:"question_count"`
	SessionTTLMinutes int         `mapstructure:"session_ttl_minutes" yaml:"session_ttl_minutes"`
	Mixed             MixedConfig `mapstructure:"mixed" yaml:"mixed"`
}

// MixedConfig is the per-tier item count of a mixed draw, applied in tier
// order easy, normal, hard, very_hard.
type MixedConfig struct {
	Easy     int `mapstructure:"easy" yaml:"easy"`
	Normal   int `mapstructure:"normal" yaml:"normal"`
	Hard     int `mapstructure:"hard" yaml:"hard"`
	VeryHard int `mapstructure:"very_hard" yaml:"very_hard"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type" yaml:"type"`
	LocalPath     string `mapstructure:"local_path" yaml:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint" yaml:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key" yaml:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key" yaml:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket" yaml:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl" yaml:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint" yaml:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests" yaml:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes" yaml:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CHOSUNG_QUIZ")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Admin / JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("admin.token_hash", "ADMIN_TOKEN_HASH")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Quiz.QuestionCount <= 0 {
		cfg.Quiz.QuestionCount = 10
	}
	if cfg.Quiz.SessionTTLMinutes <= 0 {
		cfg.Quiz.SessionTTLMinutes = 60
	}
	if cfg.Quiz.Mixed == (MixedConfig{}) {
		cfg.Quiz.Mixed = MixedConfig{Easy: 2, Normal: 3, Hard: 3, VeryHard: 2}
	}
	if cfg.AI.BatchSize <= 0 {
		cfg.AI.BatchSize = 40
	}
	if cfg.Scraper.BaseURL == "" {
		cfg.Scraper.BaseURL = "https://music.bugs.co.kr"
	}
	if cfg.Scraper.DelaySeconds <= 0 {
		cfg.Scraper.DelaySeconds = 1.5
	}
}
