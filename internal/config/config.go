package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Deployment modes. In static-export mode the public form and feed endpoints
// are not registered because the exported frontend calls the vendors directly;
// only health, metrics and the admin surface remain.
const (
	ModeServer       = "server"
	ModeStaticExport = "static-export"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Turnstile TurnstileConfig `mapstructure:"turnstile"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Careers   CareersConfig   `mapstructure:"careers"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port        int    `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// AllowedOrigins returns the configured CORS origins as a list.
func (a APIConfig) AllowedOrigins() []string {
	return splitList(a.CORSOrigins)
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection options.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port for go-redis and asynq.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// TurnstileConfig holds the per-form Cloudflare Turnstile secrets.
// A missing secret makes verification for that form fail closed.
type TurnstileConfig struct {
	ContactSecret string `mapstructure:"contact_secret"`
	CareerSecret  string `mapstructure:"career_secret"`
	VerifyURL     string `mapstructure:"verify_url"`
}

// FeedConfig describes the external blog feed mirrored by the site.
type FeedConfig struct {
	URL                  string `mapstructure:"url"`
	CacheTTLSeconds      int    `mapstructure:"cache_ttl_seconds"`
	PlaceholderThumbnail string `mapstructure:"placeholder_thumbnail"`
}

// UploadConfig bounds resume uploads. ClamdAddr is optional; when empty
// uploads are stored without a virus scan.
type UploadConfig struct {
	MaxBytes  int64  `mapstructure:"max_bytes"`
	ClamdAddr string `mapstructure:"clamd_addr"`
	MaxPerDay int    `mapstructure:"max_per_day"`
}

// CareersConfig lists the open positions accepted by the career form.
type CareersConfig struct {
	Positions string `mapstructure:"positions"`
}

// PositionList returns the configured positions as a list.
func (c CareersConfig) PositionList() []string {
	return splitList(c.Positions)
}

// AdminConfig guards the operator endpoints.
type AdminConfig struct {
	PasswordHash    string `mapstructure:"password_hash"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.mode", ModeServer)
	v.SetDefault("api.cors_origins", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "skapl")
	v.SetDefault("database.user", "skapl")
	v.SetDefault("database.password", "skapl")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("turnstile.verify_url", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	v.SetDefault("feed.url", "https://medium.com/feed/@techinfra")
	v.SetDefault("feed.cache_ttl_seconds", 3600)
	v.SetDefault("feed.placeholder_thumbnail", "/blog-placeholder.jpg")
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("upload.max_per_day", 20)
	v.SetDefault("careers.positions", "Energy Consultant,Solar Project Engineer,Business Analyst")
	v.SetDefault("admin.token_ttl_minutes", 60)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                   "API_PORT",
		"api.mode":                   "API_MODE",
		"api.cors_origins":           "API_CORS_ORIGINS",
		"database.host":              "DATABASE_HOST",
		"database.port":              "DATABASE_PORT",
		"database.name":              "POSTGRES_DB",
		"database.user":              "POSTGRES_USER",
		"database.password":          "POSTGRES_PASSWORD",
		"database.sslmode":           "DATABASE_SSLMODE",
		"redis.host":                 "REDIS_HOST",
		"redis.port":                 "REDIS_PORT",
		"minio.endpoint":             "MINIO_ENDPOINT",
		"minio.public_endpoint":      "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":        "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":    "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":              "MINIO_USE_SSL",
		"minio.bucket":               "MINIO_BUCKET",
		"minio.region":               "MINIO_REGION",
		"minio.bucket_lookup":        "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":   "MINIO_AUTO_CREATE_BUCKET",
		"turnstile.contact_secret":   "TURNSTILE_CONTACT_SECRET_KEY",
		"turnstile.career_secret":    "TURNSTILE_CAREER_SECRET_KEY",
		"turnstile.verify_url":       "TURNSTILE_VERIFY_URL",
		"feed.url":                   "FEED_URL",
		"feed.cache_ttl_seconds":     "FEED_CACHE_TTL_SECONDS",
		"feed.placeholder_thumbnail": "FEED_PLACEHOLDER_THUMBNAIL",
		"upload.max_bytes":           "UPLOAD_MAX_BYTES",
		"upload.clamd_addr":          "CLAMD_ADDR",
		"upload.max_per_day":         "UPLOAD_MAX_PER_DAY",
		"careers.positions":          "CAREERS_POSITIONS",
		"admin.password_hash":        "ADMIN_PASSWORD_HASH",
		"admin.jwt_secret":           "ADMIN_JWT_SECRET",
		"admin.token_ttl_minutes":    "ADMIN_TOKEN_TTL_MINUTES",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.Mode != ModeServer && cfg.API.Mode != ModeStaticExport {
		return fmt.Errorf("invalid api mode %q", cfg.API.Mode)
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Turnstile.VerifyURL == "" {
		return errors.New("turnstile verify url is required")
	}
	if cfg.Feed.URL == "" {
		return errors.New("feed url is required")
	}
	if cfg.Feed.CacheTTLSeconds < 0 {
		return errors.New("feed cache ttl must not be negative")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	if len(cfg.Careers.PositionList()) == 0 {
		return errors.New("careers positions are required")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
