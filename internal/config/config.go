package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phambaophuc/image-cropper/pkg/utils"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Session  SessionConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	MaxFileSize   int64
	AllowedTypes  []string
	DocumentDir   string
	Filename      string
	JPEGQuality   int
	MirrorUploads bool
	CacheDuration time.Duration
	JobTTL        time.Duration
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type SupabaseConfig struct {
	URL    string
	KEY    string
	BUCKET string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL       string
	QueueName string
	Workers   int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 20*1024*1024), // 20MB
			AllowedTypes:  getEnvAsSlice("ALLOWED_TYPES", utils.DefaultImageTypes),
			DocumentDir:   getEnv("DOCUMENT_DIR", ""),
			Filename:      getEnv("OUTPUT_FILENAME", "croppedImage.png"),
			JPEGQuality:   getEnvAsInt("JPEG_QUALITY", 100),
			MirrorUploads: getEnvAsBool("MIRROR_UPLOADS", false),
			CacheDuration: getDuration("CACHE_DURATION", 24*time.Hour),
			JobTTL:        getDuration("JOB_TTL", 72*time.Hour),
		},
		Session: SessionConfig{
			TTL:             getDuration("SESSION_TTL", 30*time.Minute),
			CleanupInterval: getDuration("SESSION_CLEANUP_INTERVAL", time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:       getEnv("RABBITMQ_URL", ""),
			QueueName: getEnv("RABBITMQ_QUEUE", "image_cropping"),
			Workers:   getEnvAsInt("QUEUE_WORKERS", 2),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Storage.JPEGQuality < 1 || c.Storage.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.Storage.JPEGQuality)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	// the output is always written directly inside the document directory
	if c.Storage.Filename == "" || c.Storage.Filename != filepath.Base(c.Storage.Filename) {
		return fmt.Errorf("OUTPUT_FILENAME must be a bare file name, got %q", c.Storage.Filename)
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Workers < 1 {
		return fmt.Errorf("QUEUE_WORKERS must be at least 1 when RABBITMQ_URL is set")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
