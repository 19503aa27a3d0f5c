package configs

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the realtime service
type Config struct {
	Server    ServerConfig
	JWT       JWTConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type JWTConfig struct {
	Secret string
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
}

type RedisConfig struct {
	URL string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type RateLimitConfig struct {
	MinutePerUser   int
	DailyPerUser    int
	BlockSeconds    int
	DailyWindowMin  int
	ConnBurstPerSec int
}

var (
	ConfigInstance *Config
	once           sync.Once
)

// Load loads configuration from .env file and environment variables
func Load() *Config {
	once.Do(func() {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")

		viper.SetDefault("TRIPCHAT_HOST", "0.0.0.0")
		viper.SetDefault("TRIPCHAT_PORT", "8080")
		viper.SetDefault("TRIPCHAT_READ_TIMEOUT", "15s")
		viper.SetDefault("TRIPCHAT_WRITE_TIMEOUT", "15s")
		viper.SetDefault("TRIPCHAT_IDLE_TIMEOUT", "60s")
		viper.SetDefault("TRIPCHAT_ALLOWED_ORIGINS", "http://localhost:3000")
		viper.SetDefault("TRIPCHAT_JWT_SECRET", "secret")
		viper.SetDefault("MYSQL_USER", "root")
		viper.SetDefault("MYSQL_PASSWORD", "password")
		viper.SetDefault("MYSQL_HOST", "localhost")
		viper.SetDefault("MYSQL_PORT", "3306")
		viper.SetDefault("MYSQL_DB", "tripchat")
		viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
		viper.SetDefault("KAFKA_ENABLED", false)
		viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
		viper.SetDefault("KAFKA_TOPIC", "chat-events")
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
		viper.SetDefault("STORAGE_ACCESS_KEY", "minioadmin")
		viper.SetDefault("STORAGE_SECRET_KEY", "minioadmin")
		viper.SetDefault("STORAGE_BUCKET", "chat-attachments")
		viper.SetDefault("RATE_MINUTE_LIMIT", 30)
		viper.SetDefault("RATE_DAILY_LIMIT", 500)
		viper.SetDefault("RATE_BLOCK_SECONDS", 300)
		viper.SetDefault("RATE_DAILY_WINDOW_MIN", 1440)
		viper.SetDefault("CONN_BURST_PER_SEC", 10)
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			log.Printf("No .env file found, using environment variables and defaults")
		}

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:           viper.GetString("TRIPCHAT_HOST"),
				Port:           viper.GetString("TRIPCHAT_PORT"),
				ReadTimeout:    viper.GetDuration("TRIPCHAT_READ_TIMEOUT"),
				WriteTimeout:   viper.GetDuration("TRIPCHAT_WRITE_TIMEOUT"),
				IdleTimeout:    viper.GetDuration("TRIPCHAT_IDLE_TIMEOUT"),
				AllowedOrigins: splitAndTrim(viper.GetString("TRIPCHAT_ALLOWED_ORIGINS")),
			},
			JWT: JWTConfig{
				Secret: viper.GetString("TRIPCHAT_JWT_SECRET"),
			},
			Database: DatabaseConfig{
				User:     viper.GetString("MYSQL_USER"),
				Password: viper.GetString("MYSQL_PASSWORD"),
				Host:     viper.GetString("MYSQL_HOST"),
				Port:     viper.GetString("MYSQL_PORT"),
				DBName:   viper.GetString("MYSQL_DB"),
			},
			Redis: RedisConfig{
				URL: viper.GetString("REDIS_URL"),
			},
			Kafka: KafkaConfig{
				Enabled: viper.GetBool("KAFKA_ENABLED"),
				Brokers: splitAndTrim(viper.GetString("KAFKA_BROKERS")),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
			},
			RateLimit: RateLimitConfig{
				MinutePerUser:   viper.GetInt("RATE_MINUTE_LIMIT"),
				DailyPerUser:    viper.GetInt("RATE_DAILY_LIMIT"),
				BlockSeconds:    viper.GetInt("RATE_BLOCK_SECONDS"),
				DailyWindowMin:  viper.GetInt("RATE_DAILY_WINDOW_MIN"),
				ConnBurstPerSec: viper.GetInt("CONN_BURST_PER_SEC"),
			},
		}
	})
	return ConfigInstance
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
