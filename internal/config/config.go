package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Annotate AnnotateConfig
	Suggest  SuggestConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SchemaCacheTTL   time.Duration
	PropertyCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// AnnotateConfig lists which resource templates apply per annotation
// context. Order matters: when a template is needed and none was selected,
// the first configured one is used.
type AnnotateConfig struct {
	DescribeTemplates []int64
	LocateTemplates   []int64
	EmptyByDefault    bool
}

type SuggestConfig struct {
	BaseURL        string
	RequestTimeout int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SchemaCacheTTL:   time.Duration(viper.GetInt("SCHEMA_CACHE_TTL")) * time.Second,
			PropertyCacheTTL: time.Duration(viper.GetInt("PROPERTY_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Annotate: AnnotateConfig{
			DescribeTemplates: parseTemplateIDs(viper.GetString("ANNOTATE_DESCRIBE_TEMPLATES")),
			LocateTemplates:   parseTemplateIDs(viper.GetString("ANNOTATE_LOCATE_TEMPLATES")),
			EmptyByDefault:    viper.GetBool("ANNOTATE_EMPTY_BY_DEFAULT"),
		},
		Suggest: SuggestConfig{
			BaseURL:        viper.GetString("SUGGEST_BASE_URL"),
			RequestTimeout: viper.GetInt("SUGGEST_REQUEST_TIMEOUT"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.SchemaCacheTTL == 0 {
		cfg.Cache.SchemaCacheTTL = 300 * time.Second
	}
	if cfg.Cache.PropertyCacheTTL == 0 {
		cfg.Cache.PropertyCacheTTL = 3600 * time.Second
	}
	if cfg.Suggest.RequestTimeout == 0 {
		cfg.Suggest.RequestTimeout = 10
	}

	return cfg, nil
}

func parseTemplateIDs(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		result = append(result, id)
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
