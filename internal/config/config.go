package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// Config is the full application configuration, loaded from a yaml file
// and overridable per field through environment variables.
type Config struct {
	App       AppConfig       `yaml:"app"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	Store     StoreConfig     `yaml:"store"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

// IsDevelopment reports whether the app runs in a development-like env
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "local" || c.App.Env == "development"
}

type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
}

// AccessTTL returns the access token lifetime
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StoreConfig selects the document store driver: "redis" or "firebase"
type StoreConfig struct {
	Driver              string `yaml:"driver"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

func (c StoreConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// FirebaseConfig configures the RTDB-backed store. Credentials come
// from Application Default Credentials (GOOGLE_APPLICATION_CREDENTIALS).
type FirebaseConfig struct {
	ProjectID   string `yaml:"project_id"`
	DatabaseURL string `yaml:"database_url"`
}

type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Load reads the yaml config at path and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 60 * 24
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "redis"
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

// applyEnvOverrides lets deployment environments override file values
// without editing the yaml. OS env vars always win.
func applyEnvOverrides(cfg *Config) {
	overrideString("APP_ENV", &cfg.App.Env)
	overrideInt("APP_PORT", &cfg.App.Port)

	overrideString("JWT_SECRET", &cfg.JWT.Secret)
	overrideInt("JWT_ACCESS_TTL_MINUTES", &cfg.JWT.AccessTTLMinutes)

	overrideString("REDIS_HOST", &cfg.Redis.Host)
	overrideInt("REDIS_PORT", &cfg.Redis.Port)
	overrideString("REDIS_PASSWORD", &cfg.Redis.Password)
	overrideInt("REDIS_DB", &cfg.Redis.DB)
	overrideInt("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)

	overrideString("STORE_DRIVER", &cfg.Store.Driver)
	overrideInt("STORE_POLL_INTERVAL_SECONDS", &cfg.Store.PollIntervalSeconds)

	overrideString("FIREBASE_PROJECT_ID", &cfg.Firebase.ProjectID)
	overrideString("FIREBASE_DATABASE_URL", &cfg.Firebase.DatabaseURL)

	overrideString("S3_ENDPOINT", &cfg.Storage.Endpoint)
	overrideString("S3_REGION", &cfg.Storage.Region)
	overrideString("S3_ACCESS_KEY_ID", &cfg.Storage.AccessKeyID)
	overrideString("S3_SECRET_ACCESS_KEY", &cfg.Storage.SecretAccessKey)
	overrideString("S3_BUCKET", &cfg.Storage.Bucket)
	overrideString("S3_CDN_URL", &cfg.Storage.CDNURL)

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.CORS.AllowOrigins = origins
	}
}

func overrideString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// LogResolved logs the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.Info("config: env=%s port=%d store=%s redis=%s:%d firebase_db=%s bucket=%s",
		cfg.App.Env,
		cfg.App.Port,
		cfg.Store.Driver,
		cfg.Redis.Host, cfg.Redis.Port,
		cfg.Firebase.DatabaseURL,
		cfg.Storage.Bucket,
	)
}
