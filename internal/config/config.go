package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the backend.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"mode"` // gin mode: debug, release or test
	APIURL      string `mapstructure:"api_url"`
	EnablePprof bool   `mapstructure:"enable_pprof"`
}

type DatabaseConfig struct {
	// DSN for the sqlite database. ":memory:" is used by the test suites.
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

type LogConfig struct {
	// Format is "human" or "json". Defaults to json in release mode.
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	// AllowOrigins is a space separated list of origins.
	AllowOrigins string `mapstructure:"allow_origins"`
}

// Load reads the configuration from an optional yaml file and the
// environment. Environment variables take the form TRIPMATE_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.api_url", "http://localhost:8080")
	v.SetDefault("server.enable_pprof", false)
	v.SetDefault("database.dsn", "data/tripmate.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("log.format", "")
	v.SetDefault("cors.allow_origins", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tripmate")

		// A missing config file is fine, defaults and env cover everything
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("tripmate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not parse configuration: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, ErrJWTSecretMissing
	}

	config.JWT.ExpireTime = time.Duration(config.JWT.ExpireHours) * time.Hour

	return &config, nil
}
