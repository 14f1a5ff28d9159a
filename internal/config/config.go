package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Upload UploadConfig
	Cache  CacheConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// UploadConfig holds upload pipeline settings.
type UploadConfig struct {
	Bucket          string        `mapstructure:"bucket"`
	GroupBucket     string        `mapstructure:"group_bucket"`
	PublicBuckets   []string      `mapstructure:"public_buckets"`
	MaxFileSizeMB   int64         `mapstructure:"max_file_size_mb"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	BackoffBase     time.Duration `mapstructure:"backoff_base"`
	BackoffCap      time.Duration `mapstructure:"backoff_cap"`
	SignedURLExpiry time.Duration `mapstructure:"signed_url_expiry"`
}

// IsPublicBucket reports whether uploads to bucket get a public URL.
func (u *UploadConfig) IsPublicBucket(bucket string) bool {
	for _, b := range u.PublicBuckets {
		if b == bucket {
			return true
		}
	}
	return false
}

// CacheConfig holds cache manager and backing store settings.
type CacheConfig struct {
	Backend          string  `mapstructure:"backend"` // badger, redis, memory
	Namespace        string  `mapstructure:"namespace"`
	MaxBytes         int64   `mapstructure:"max_bytes"`
	CleanupThreshold float64 `mapstructure:"cleanup_threshold"`
	EvictFraction    float64 `mapstructure:"evict_fraction"`

	BadgerDir string `mapstructure:"badger_dir"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the STUDYLINK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STUDYLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "studylink")
	v.SetDefault("db.password", "studylink_secret")
	v.SetDefault("db.name", "studylink_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "studylink")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")

	// Upload defaults
	v.SetDefault("upload.bucket", "studylink-resources")
	v.SetDefault("upload.group_bucket", "studylink-group-files")
	v.SetDefault("upload.public_buckets", "studylink-resources")
	v.SetDefault("upload.max_file_size_mb", 10)
	v.SetDefault("upload.max_attempts", 3)
	v.SetDefault("upload.backoff_base", "500ms")
	v.SetDefault("upload.backoff_cap", "5s")
	v.SetDefault("upload.signed_url_expiry", "1h")

	// Cache defaults
	v.SetDefault("cache.backend", "badger")
	v.SetDefault("cache.namespace", "studylink_cache")
	v.SetDefault("cache.max_bytes", 100*1024*1024)
	v.SetDefault("cache.cleanup_threshold", 0.85)
	v.SetDefault("cache.evict_fraction", 0.2)
	v.SetDefault("cache.badger_dir", "./data/cache")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "STUDYLINK_SERVER_PORT",
		"server.read_timeout":      "STUDYLINK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "STUDYLINK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "STUDYLINK_SERVER_ENVIRONMENT",
		"db.host":                  "STUDYLINK_DB_HOST",
		"db.port":                  "STUDYLINK_DB_PORT",
		"db.user":                  "STUDYLINK_DB_USER",
		"db.password":              "STUDYLINK_DB_PASSWORD",
		"db.name":                  "STUDYLINK_DB_NAME",
		"db.sslmode":               "STUDYLINK_DB_SSLMODE",
		"db.max_open":              "STUDYLINK_DB_MAX_OPEN",
		"db.max_idle":              "STUDYLINK_DB_MAX_IDLE",
		"jwt.secret":               "STUDYLINK_JWT_SECRET",
		"jwt.access_expiry":        "STUDYLINK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "STUDYLINK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "STUDYLINK_JWT_ISSUER",
		"s3.region":                "STUDYLINK_S3_REGION",
		"s3.endpoint":              "STUDYLINK_S3_ENDPOINT",
		"s3.access_key":            "STUDYLINK_S3_ACCESS_KEY",
		"s3.secret_key":            "STUDYLINK_S3_SECRET_KEY",
		"upload.bucket":            "STUDYLINK_UPLOAD_BUCKET",
		"upload.group_bucket":      "STUDYLINK_UPLOAD_GROUP_BUCKET",
		"upload.public_buckets":    "STUDYLINK_UPLOAD_PUBLIC_BUCKETS",
		"upload.max_file_size_mb":  "STUDYLINK_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_attempts":      "STUDYLINK_UPLOAD_MAX_ATTEMPTS",
		"upload.backoff_base":      "STUDYLINK_UPLOAD_BACKOFF_BASE",
		"upload.backoff_cap":       "STUDYLINK_UPLOAD_BACKOFF_CAP",
		"upload.signed_url_expiry": "STUDYLINK_UPLOAD_SIGNED_URL_EXPIRY",
		"cache.backend":            "STUDYLINK_CACHE_BACKEND",
		"cache.namespace":          "STUDYLINK_CACHE_NAMESPACE",
		"cache.max_bytes":          "STUDYLINK_CACHE_MAX_BYTES",
		"cache.cleanup_threshold":  "STUDYLINK_CACHE_CLEANUP_THRESHOLD",
		"cache.evict_fraction":     "STUDYLINK_CACHE_EVICT_FRACTION",
		"cache.badger_dir":         "STUDYLINK_CACHE_BADGER_DIR",
		"cache.redis_addr":         "STUDYLINK_CACHE_REDIS_ADDR",
		"cache.redis_password":     "STUDYLINK_CACHE_REDIS_PASSWORD",
		"cache.redis_db":           "STUDYLINK_CACHE_REDIS_DB",
		"log.level":                "STUDYLINK_LOG_LEVEL",
		"log.format":               "STUDYLINK_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if STUDYLINK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STUDYLINK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	// Parse public buckets from comma-separated string
	var publicBuckets []string
	for _, b := range strings.Split(v.GetString("upload.public_buckets"), ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			publicBuckets = append(publicBuckets, b)
		}
	}
	cfg.Upload = UploadConfig{
		Bucket:          v.GetString("upload.bucket"),
		GroupBucket:     v.GetString("upload.group_bucket"),
		PublicBuckets:   publicBuckets,
		MaxFileSizeMB:   v.GetInt64("upload.max_file_size_mb"),
		MaxAttempts:     v.GetInt("upload.max_attempts"),
		BackoffBase:     v.GetDuration("upload.backoff_base"),
		BackoffCap:      v.GetDuration("upload.backoff_cap"),
		SignedURLExpiry: v.GetDuration("upload.signed_url_expiry"),
	}
	cfg.Cache = CacheConfig{
		Backend:          v.GetString("cache.backend"),
		Namespace:        v.GetString("cache.namespace"),
		MaxBytes:         v.GetInt64("cache.max_bytes"),
		CleanupThreshold: v.GetFloat64("cache.cleanup_threshold"),
		EvictFraction:    v.GetFloat64("cache.evict_fraction"),
		BadgerDir:        v.GetString("cache.badger_dir"),
		RedisAddr:        v.GetString("cache.redis_addr"),
		RedisPassword:    v.GetString("cache.redis_password"),
		RedisDB:          v.GetInt("cache.redis_db"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
