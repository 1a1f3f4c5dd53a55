package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	Safety   SafetyConfig
	Reviews  ReviewsConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Name         string
	Version      string
	Environment  string
	ShareCodeKey string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// GeminiConfig drives the AI re-ranking oracle. An empty API key is a normal
// configuration: the re-ranker then runs in mock mode.
type GeminiConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}

type SafetyConfig struct {
	BaseURL string
	APIKey  string
}

type ReviewsConfig struct {
	BaseURL string
}

type PipelineConfig struct {
	TopK             int
	EnrichBatchSize  int
	PersistBatchSize int
	BrandBlacklist   []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		redisDB = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "MyHairMatch API"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			ShareCodeKey: getEnv("APP_SHARE_CODE_KEY", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "my_hair_match"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			TimeoutSeconds: getEnvInt("GEMINI_TIMEOUT_SECONDS", 20),
		},
		Safety: SafetyConfig{
			BaseURL: getEnv("SAFETY_API_BASE_URL", ""),
			APIKey:  getEnv("SAFETY_API_KEY", ""),
		},
		Reviews: ReviewsConfig{
			BaseURL: getEnv("REVIEWS_API_BASE_URL", ""),
		},
		Pipeline: PipelineConfig{
			TopK:             getEnvInt("PIPELINE_TOP_K", 10),
			EnrichBatchSize:  getEnvInt("PIPELINE_ENRICH_BATCH_SIZE", 5),
			PersistBatchSize: getEnvInt("PIPELINE_PERSIST_BATCH_SIZE", 20),
			BrandBlacklist:   getEnvList("PIPELINE_BRAND_BLACKLIST"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}

	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}

	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
