package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Parser   ParserConfig
	Cache    CacheConfig
	Gemini   GeminiConfig
	Qdrant   QdrantConfig
	Indexer  IndexerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type ParserConfig struct {
	Backend     string
	Interpreter string
	Script      string
	Timeout     time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

type GeminiConfig struct {
	APIKey     string
	MaxRetries int
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type IndexerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_parser"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Parser: ParserConfig{
			Backend:     getEnv("PARSER_BACKEND", "deepseek"),
			Interpreter: getEnv("PARSER_INTERPRETER", "python"),
			Script:      getEnv("PARSER_SCRIPT", "./python/deepseek_resume_parser.py"),
			Timeout:     getEnvAsDuration("PARSER_TIMEOUT", "120s"),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("PARSE_CACHE_TTL", "30m"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "talent_pool"),
		},
		Indexer: IndexerConfig{
			Concurrency: getEnvAsInt("INDEXER_CONCURRENCY", 2),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
