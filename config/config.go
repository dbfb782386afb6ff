package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	StoreDriver    string `mapstructure:"STORE_DRIVER"`    // mongo | memory
	CounterBackend string `mapstructure:"COUNTER_BACKEND"` // mongo | redis | memory
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Push.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	PushEnabled             bool   `mapstructure:"PUSH_ENABLED"`

	// Quality metrics.
	MetricsWindowDays   int           `mapstructure:"METRICS_WINDOW_DAYS"`
	MetricsCron         string        `mapstructure:"METRICS_CRON"`
	MetricsWorkers      int           `mapstructure:"METRICS_WORKERS"`
	MetricsTaskTimeout  time.Duration `mapstructure:"METRICS_TASK_TIMEOUT"`
	MetricsRunTimeout   time.Duration `mapstructure:"METRICS_RUN_TIMEOUT"` // whole scheduled batch
	RollupSnapshotLimit int           `mapstructure:"ROLLUP_SNAPSHOT_LIMIT"`
	WorkerConcurrency   int           `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("COUNTER_BACKEND", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "caretrust")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("PUSH_ENABLED", false)
	viper.SetDefault("METRICS_WINDOW_DAYS", 90)
	viper.SetDefault("METRICS_CRON", "0 0 * * 0")
	viper.SetDefault("METRICS_WORKERS", 16)
	viper.SetDefault("METRICS_TASK_TIMEOUT", 30*time.Second)
	viper.SetDefault("METRICS_RUN_TIMEOUT", 30*time.Minute)
	viper.SetDefault("ROLLUP_SNAPSHOT_LIMIT", 1000)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// InMemory reports whether the process runs without Mongo and Redis.
func InMemory() bool {
	return AppConfig.StoreDriver == "memory"
}
