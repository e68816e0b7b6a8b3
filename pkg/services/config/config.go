package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Upstream struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Cache struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type Catalog struct {
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

type Config struct {
	Server   Server   `mapstructure:"server"`
	Upstream Upstream `mapstructure:"upstream"`
	Cache    Cache    `mapstructure:"cache"`
	Catalog  Catalog  `mapstructure:"catalog"`
}

// LoadConfig reads the YAML config at path, falling back to defaults
// for anything not set. An empty path means defaults only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("upstream.base_url", "https://servapibi.xm.com.co")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("cache.path", "hidroatlas.db")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("catalog.refresh_schedule", "0 6 * * *")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
