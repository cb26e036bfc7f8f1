package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	HTTP  HTTP   `mapstructure:"http"`
	Admin HTTP   `mapstructure:"admin"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttl_sec"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
	// CommitLogicalFailures keeps writes made before a failed result.
	CommitLogicalFailures bool `mapstructure:"commit_logical_failures"`
}

type Geocoder struct {
	ForwardURL string `mapstructure:"forward_url"`
	ReverseURL string `mapstructure:"reverse_url"`
	UserAgent  string `mapstructure:"user_agent"`
	Email      string `mapstructure:"email"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Tracing struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout | otlp
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type Admin struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type Limits struct {
	RPS               float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
	Concurrency       int64   `mapstructure:"concurrency"`
	MaxBodyBytes      int64   `mapstructure:"max_body_bytes"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	JWT      JWT      `mapstructure:"jwt"`
	DB       DB       `mapstructure:"db"`
	Redis    Redis    `mapstructure:"redis"`
	Geocoder Geocoder `mapstructure:"geocoder"`
	Tracing  Tracing  `mapstructure:"tracing"`
	Admin    Admin    `mapstructure:"admin"`
	Limits   Limits   `mapstructure:"limits"`
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Limits.RequestTimeoutSec) * time.Second
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.Redis.TTLSec) * time.Second }

func (c Config) GeocoderTimeout() time.Duration {
	return time.Duration(c.Geocoder.TimeoutSec) * time.Second
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

var defaults = map[string]any{
	"app.name":                    "geo-region-api",
	"app.env":                     "local",
	"app.http.host":               "0.0.0.0",
	"app.http.port":               3000,
	"app.http.read_timeout_sec":   10,
	"app.http.write_timeout_sec":  15,
	"app.http.idle_timeout_sec":   60,
	"app.admin.host":              "127.0.0.1",
	"app.admin.port":              3001,
	"app.admin.read_timeout_sec":  5,
	"app.admin.write_timeout_sec": 10,
	"app.admin.idle_timeout_sec":  60,

	"log.level":             "info",
	"log.json":              false,
	"log.file.enable":       false,
	"log.file.filename":     "logs/app.log",
	"log.file.max_size_mb":  100,
	"log.file.max_backups":  7,
	"log.file.max_age_days": 14,
	"log.file.compress":     true,

	"jwt.secret":               "",
	"jwt.issuer":               "geo-region-api",
	"jwt.access_token_ttl_min": 60,

	"db.driver":                  "postgres",
	"db.dsn":                     "",
	"db.username":                "",
	"db.password":                "",
	"db.max_open_conns":          20,
	"db.max_idle_conns":          10,
	"db.conn_max_lifetime_min":   30,
	"db.auto_migrate":            true,
	"db.log_level":               "warn",
	"db.commit_logical_failures": false,

	"redis.addr":     "",
	"redis.password": "",
	"redis.db":       0,
	"redis.ttl_sec":  300,

	"geocoder.forward_url": "https://nominatim.openstreetmap.org/search",
	"geocoder.reverse_url": "https://nominatim.openstreetmap.org/reverse",
	"geocoder.user_agent":  "geo-region-api/1.0",
	"geocoder.email":       "",
	"geocoder.timeout_sec": 5,

	"tracing.enabled":      false,
	"tracing.exporter":     "stdout",
	"tracing.endpoint":     "localhost:4317",
	"tracing.sample_ratio": 1.0,

	"admin.username":      "admin",
	"admin.password_hash": "",

	"limits.rps":                 20.0,
	"limits.burst":               40,
	"limits.concurrency":         256,
	"limits.max_body_bytes":      1 << 20,
	"limits.request_timeout_sec": 15,
}

// LoadE reads path (or CONFIG_PATH, or ./configs/config.local.yaml) with
// APP_ prefixed environment overrides, e.g. APP_DB_DSN. A missing file is
// not an error; defaults and environment apply.
func LoadE(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := LoadE(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("config: db.driver %q is not supported", c.DB.Driver)
	}
	if c.Geocoder.ForwardURL == "" || c.Geocoder.ReverseURL == "" {
		return errors.New("config: geocoder urls are required")
	}
	if c.Geocoder.UserAgent == "" {
		return errors.New("config: geocoder.user_agent is required")
	}
	return nil
}
