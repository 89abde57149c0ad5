package config

import (
	"time"

	"trends-go/pkg/api"
	"trends-go/pkg/logger"
)

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Provider  api.ClientConfig `mapstructure:"provider"`
	Dashboard DashboardConfig  `mapstructure:"dashboard"`
	Session   SessionConfig    `mapstructure:"session"`
	Logger    logger.Config    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Debug           bool          `mapstructure:"debug"`
}

type DashboardConfig struct {
	Title        string        `mapstructure:"title"`
	Template     string        `mapstructure:"template"`
	Resolution   string        `mapstructure:"resolution"`
	RelatedDelay time.Duration `mapstructure:"related_delay"`
}

type SessionConfig struct {
	CookieName  string        `mapstructure:"cookie_name"`
	MaxSessions int           `mapstructure:"max_sessions"`
	TTL         time.Duration `mapstructure:"ttl"`
	Secure      bool          `mapstructure:"secure"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
