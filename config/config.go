package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT JWTConfig `mapstructure:"jwt"`
}

// JWTConfig holds the token signing parameters. It is loaded once at process
// start and handed to the token service at construction time; nothing reads
// signing configuration ad hoc after that.
type JWTConfig struct {
	SecretKey        string `mapstructure:"secret_key"`
	AccessTokenTTL   string `mapstructure:"access_token_ttl"`
	RefreshTokenDays int    `mapstructure:"refresh_token_days"`
}

// AccessTTL parses the configured access token lifetime.
func (c JWTConfig) AccessTTL() (time.Duration, error) {
	return time.ParseDuration(c.AccessTokenTTL)
}

// RefreshTTL returns the configured refresh token lifetime.
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenDays) * 24 * time.Hour
}

// Load reads config.yml from the given path. Environment variables take
// precedence over file values.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_token_ttl", "15m")
	viper.SetDefault("jwt.refresh_token_days", 30)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return cfg, nil
}
