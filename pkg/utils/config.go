package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"reviewhub/pkg/database"
)

const (
	StoreSQL  = "sql"
	StoreREST = "rest"

	// DefaultRESTTable matches the hosted project's table. PostgREST
	// table names are case-sensitive.
	DefaultRESTTable = "Reviews"
)

type Config struct {
	HTTPAddr    string      `yaml:"http_addr"`
	GRPCAddr    string      `yaml:"grpc_addr"`
	LogLevel    string      `yaml:"log_level"`
	CORSOrigins []string    `yaml:"cors_origins"`
	Store       StoreConfig `yaml:"store"`
	Cache       CacheConfig `yaml:"cache"`
}

type StoreConfig struct {
	Backend  string          `yaml:"backend"` // "sql" or "rest"
	Database database.Config `yaml:"database"`
	REST     RESTConfig      `yaml:"rest"`
}

// RESTConfig points at a PostgREST endpoint, e.g. a hosted Supabase project.
type RESTConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Table string `yaml:"table"`
}

// CacheConfig enables the Redis list cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func Defaults() Config {
	return Config{
		HTTPAddr: ":8080",
		GRPCAddr: ":9090",
		LogLevel: "info",
		Store: StoreConfig{
			Backend:  StoreSQL,
			Database: database.Config{Driver: database.DriverSQLite},
			REST:     RESTConfig{Table: DefaultRESTTable},
		},
		Cache: CacheConfig{TTL: 30 * time.Second},
	}
}

// Load builds the runtime config: defaults, then the YAML file named by
// REVIEWHUB_CONFIG, then environment variables (a .env file is read first
// when present).
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("REVIEWHUB_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	// after layering, so a file or env that picks pgx never inherits the
	// sqlite path
	cfg.Store.Database = cfg.Store.Database.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTPAddr, "REVIEWHUB_HTTP_ADDR")
	setString(&cfg.GRPCAddr, "REVIEWHUB_GRPC_ADDR")
	setString(&cfg.LogLevel, "REVIEWHUB_LOG_LEVEL")
	setString(&cfg.Store.Backend, "REVIEWHUB_STORE")
	setString(&cfg.Store.Database.Driver, "REVIEWHUB_DB_DRIVER")
	setString(&cfg.Store.Database.DSN, "REVIEWHUB_DB_DSN")
	setString(&cfg.Store.REST.URL, "REVIEWHUB_REST_URL")
	setString(&cfg.Store.REST.Key, "REVIEWHUB_REST_KEY")
	setString(&cfg.Store.REST.Table, "REVIEWHUB_REST_TABLE")
	setString(&cfg.Cache.RedisAddr, "REVIEWHUB_REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REVIEWHUB_REDIS_PASSWORD")

	if v := os.Getenv("REVIEWHUB_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("REVIEWHUB_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse REVIEWHUB_REDIS_DB: %w", err)
		}
		cfg.Cache.RedisDB = n
	}

	if v := os.Getenv("REVIEWHUB_CACHE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse REVIEWHUB_CACHE_TTL_SECONDS: %w", err)
		}
		cfg.Cache.TTL = time.Duration(secs) * time.Second
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreSQL:
		if err := c.Store.Database.Validate(); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	case StoreREST:
		if strings.TrimSpace(c.Store.REST.URL) == "" {
			return errors.New("store: rest url required")
		}
		if strings.TrimSpace(c.Store.REST.Table) == "" {
			return errors.New("store: rest table required")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		return errors.New("cache: ttl must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
