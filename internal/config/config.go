package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Serper    SerperConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Games     GamesConfig     `mapstructure:"games"`
	Exam      ExamConfig      `mapstructure:"exam"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type SerperConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type GamesConfig struct {
	MaxHangmanAttempts   int `mapstructure:"max_hangman_attempts"`
	MaxWordleAttempts    int `mapstructure:"max_wordle_attempts"`
	RetentionHours       int `mapstructure:"retention_hours"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

type ExamConfig struct {
	MaxQuestions     int `mapstructure:"max_questions"`
	DefaultQuestions int `mapstructure:"default_questions"`
}

type ChatConfig struct {
	SessionExpire time.Duration `mapstructure:"session_expire_minutes"`
	MaxImages     int           `mapstructure:"max_images"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ARCHTUTOR")
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Serper
	viper.BindEnv("serper.base_url", "SERPER_BASE_URL")
	viper.BindEnv("serper.api_key", "SERPER_API_KEY")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.local_path", "STORAGE_LOCAL_PATH")
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

	cfg.Chat.SessionExpire = cfg.Chat.SessionExpire * time.Minute

	applyDefaults(&cfg)

	if cfg.Server.Mode == "release" && cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("ai.api_key must be set in release mode")
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Serper.BaseURL == "" {
		cfg.Serper.BaseURL = "https://google.serper.dev"
	}
	if cfg.Games.MaxHangmanAttempts <= 0 {
		cfg.Games.MaxHangmanAttempts = 6
	}
	if cfg.Games.MaxWordleAttempts <= 0 {
		cfg.Games.MaxWordleAttempts = 6
	}
	if cfg.Games.RetentionHours <= 0 {
		cfg.Games.RetentionHours = 24
	}
	if cfg.Games.SweepIntervalMinutes <= 0 {
		cfg.Games.SweepIntervalMinutes = 60
	}
	if cfg.Exam.MaxQuestions <= 0 {
		cfg.Exam.MaxQuestions = 10
	}
	if cfg.Exam.DefaultQuestions <= 0 {
		cfg.Exam.DefaultQuestions = 5
	}
	if cfg.Chat.SessionExpire <= 0 {
		cfg.Chat.SessionExpire = 60 * time.Minute
	}
	if cfg.Chat.MaxImages <= 0 {
		cfg.Chat.MaxImages = 3
	}
}
