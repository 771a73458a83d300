package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token transport modes. A deployment reads tokens from exactly one of them.
const (
	TransportCookie = "cookie"
	TransportHeader = "header"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	JWT struct {
		AccessSecret  string        `mapstructure:"access_secret"`
		RefreshSecret string        `mapstructure:"refresh_secret"`
		AccessTTL     time.Duration `mapstructure:"access_ttl"`
		RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"jwt"`
	Auth struct {
		BcryptCost            int           `mapstructure:"bcrypt_cost"`
		TokenTransport        string        `mapstructure:"token_transport"`
		SecureCookies         bool          `mapstructure:"secure_cookies"`
		RotateRefreshTokens   bool          `mapstructure:"rotate_refresh_tokens"`
		UnifyCredentialErrors bool          `mapstructure:"unify_credential_errors"`
		RefreshSweepInterval  time.Duration `mapstructure:"refresh_sweep_interval"`
		RunMigrations         bool          `mapstructure:"run_migrations"`
	} `mapstructure:"auth"`
}

var AppConfig Config

// LoadConfig reads config.yml from path into AppConfig and exits on failure.
func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}
	AppConfig = *cfg
}

// Load reads config.yml from path, overlays BLOG_* environment variables and
// validates the result. A missing file is not an error; defaults and env apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("blog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "blog")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_ttl", time.Hour)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.token_transport", TransportCookie)
	v.SetDefault("auth.secure_cookies", false)
	v.SetDefault("auth.rotate_refresh_tokens", true)
	v.SetDefault("auth.unify_credential_errors", false)
	v.SetDefault("auth.refresh_sweep_interval", time.Hour)
	v.SetDefault("auth.run_migrations", true)
}

// Validate rejects configurations the auth core cannot run with.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt.access_secret and jwt.refresh_secret are required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("jwt ttls must be positive")
	}
	switch c.Auth.TokenTransport {
	case TransportCookie, TransportHeader:
	default:
		return fmt.Errorf("unknown auth.token_transport %q", c.Auth.TokenTransport)
	}
	return nil
}

// DatabaseURL builds a postgres URL suitable for both lib/pq and golang-migrate.
// Credentials are escaped, so they may contain any character.
func (c *Config) DatabaseURL() string {
	d := c.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisEnabled reports whether a redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
