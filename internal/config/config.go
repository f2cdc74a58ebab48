package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort        = 8021
	defaultEnv         = "development"
	defaultAPIPrefix   = "/api"
	defaultDBHost      = "127.0.0.1"
	defaultDBPort      = 3306
	defaultDBUser      = "root"
	defaultDBName      = "quest_cms"
	defaultDBCharset   = "utf8mb4"
	defaultDBLoc       = "Local"
	defaultRedisHost   = "localhost"
	defaultRedisPort   = 6379
	defaultMediaDir    = "./media"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Gateway        GatewayConfig  `yaml:"gateway"`
	Media          MediaConfig    `yaml:"media"`
}

// DatabaseConfig describes the MySQL connection. A full DSN wins over the
// individual fields.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// RedisConfig describes the shared cache used for rate-limit counters.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GatewayConfig tunes the API-key gateway.
type GatewayConfig struct {
	// APIPrefix is the path prefix the gateway protects.
	APIPrefix string `yaml:"api_prefix"`
	// PublicReadRoutes may be read without any key (GET only).
	PublicReadRoutes []string `yaml:"public_read_routes"`
}

// MediaConfig selects the media library storage backend.
type MediaConfig struct {
	// Backend is "local" or "s3".
	Backend string   `yaml:"backend"`
	Dir     string   `yaml:"dir"`
	S3      S3Config `yaml:"s3"`
}

// S3Config holds credentials for the S3 media backend.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

// Load reads and normalizes the YAML config file. A missing file yields the
// defaults so a dev instance boots with nothing but MySQL and Redis running.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if strings.TrimSpace(c.Gateway.APIPrefix) == "" {
		c.Gateway.APIPrefix = defaultAPIPrefix
	}
	if len(c.Gateway.PublicReadRoutes) == 0 {
		c.Gateway.PublicReadRoutes = []string{"/markers", "/challenges"}
	}
	if strings.TrimSpace(c.Media.Backend) == "" {
		c.Media.Backend = "local"
	}
	if strings.TrimSpace(c.Media.Dir) == "" {
		c.Media.Dir = defaultMediaDir
	}
}

// applyEnvOverrides lets deploy environments override secrets without
// touching the config file.
func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("QUEST_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("QUEST_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("QUEST_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("QUEST_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

// IsDev reports whether the instance runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
