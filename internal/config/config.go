package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by StoreConfig.Backend.
const (
	BackendFilesystem = "filesystem"
	BackendRedis      = "redis"
	BackendPostgres   = "postgres"
	BackendMemory     = "memory"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Store       StoreConfig
	Mirror      MirrorConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Uploads     UploadsConfig
	Maintenance MaintenanceConfig
	Contact     ContactConfig
	Seed        SeedConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host               string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxConn            int
	MaxRequestBodySize int
}

// StoreConfig selects and tunes the snapshot provider behind the document store.
type StoreConfig struct {
	Backend            string
	Namespace          string
	Entity             string
	Dir                string
	RedisKeyPrefix     string
	ProviderTimeout    time.Duration
	StrictCategoryRefs bool
}

type MirrorConfig struct {
	Enabled bool
	Path    string
	Bucket  string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL         string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type UploadsConfig struct {
	Dir        string
	PublicPath string
	MaxSize    int64
}

// MaintenanceConfig schedules snapshot pruning. An empty PruneSchedule
// disables it.
type MaintenanceConfig struct {
	PruneSchedule string
	MonitorPeriod time.Duration
}

// ContactConfig limits public contact submissions and uploads per client
// address. A non-positive RatePerMinute disables the limit.
type ContactConfig struct {
	RatePerMinute int
	Burst         int
}

// SeedConfig overrides admin and site fields of the seed document.
type SeedConfig struct {
	AdminUsername   string
	AdminPassword   string
	AdminEmail      string
	AdminName       string
	SiteTitle       string
	SiteDescription string
	SeedOnStartup   bool
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "storefront"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:               getString("SERVER_HOST", "0.0.0.0"),
			Port:               getString("SERVER_PORT", "8080"),
			ReadTimeout:        getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:        getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:            getInt("SERVER_MAX_CONN", 0),
			MaxRequestBodySize: getInt("SERVER_MAX_BODY_BYTES", 12<<20),
		},
		Store: StoreConfig{
			Backend:            strings.ToLower(getString("STORE_BACKEND", BackendFilesystem)),
			Namespace:          getString("STORE_NAMESPACE", "site-data"),
			Entity:             getString("STORE_ENTITY", "data"),
			Dir:                getString("STORE_DIR", "./data/snapshots"),
			RedisKeyPrefix:     getString("STORE_REDIS_PREFIX", "storefront:"),
			ProviderTimeout:    getDuration("STORE_PROVIDER_TIMEOUT", 10*time.Second),
			StrictCategoryRefs: getBool("STRICT_CATEGORY_REFS", false),
		},
		Mirror: MirrorConfig{
			Enabled: getBool("MIRROR_ENABLED", true),
			Path:    getString("BOLTDB_PATH", "./data/mirror.db"),
			Bucket:  getString("BOLTDB_BUCKET", "mirror"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "storefront"),
			User:            getString("DB_USER", "storefront"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:         getString("REDIS_URL", "redis://localhost:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          getInt("REDIS_DB", 0),
			PoolSize:    getInt("REDIS_POOL_SIZE", 10),
			DialTimeout: getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "storefront"),
			TTL:    getDuration("JWT_TTL", 12*time.Hour),
		},
		Uploads: UploadsConfig{
			Dir:        getString("UPLOADS_DIR", "./data/uploads"),
			PublicPath: getString("UPLOADS_PUBLIC_PATH", "/media"),
			MaxSize:    int64(getInt("UPLOADS_MAX_BYTES", 10<<20)),
		},
		Maintenance: MaintenanceConfig{
			PruneSchedule: os.Getenv("PRUNE_SCHEDULE"),
			MonitorPeriod: getDuration("MONITOR_PERIOD", 30*time.Second),
		},
		Contact: ContactConfig{
			RatePerMinute: getInt("CONTACT_RATE_PER_MINUTE", 5),
			Burst:         getInt("CONTACT_RATE_BURST", 3),
		},
		Seed: SeedConfig{
			AdminUsername:   os.Getenv("ADMIN_USERNAME"),
			AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
			AdminEmail:      os.Getenv("ADMIN_EMAIL"),
			AdminName:       os.Getenv("ADMIN_NAME"),
			SiteTitle:       os.Getenv("SITE_TITLE"),
			SiteDescription: os.Getenv("SITE_DESCRIPTION"),
			SeedOnStartup:   getBool("SEED_ON_STARTUP", false),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 15*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFilesystem, BackendRedis, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if strings.Trim(c.Store.Namespace, "/") == "" {
		return fmt.Errorf("config: STORE_NAMESPACE must not be empty")
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
