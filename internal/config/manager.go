package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"trends-go/pkg/api"
	"trends-go/pkg/charts"
)

const EnvPrefix = "TRENDS"

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath (optional; empty means defaults only), applies
// TRENDS_* environment overrides and validates the result.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return m.decode()
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	_, err := m.decode()
	return err
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) decode() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) setupViper(configPath string) {
	setDefaults(m.viper)

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	client := api.DefaultClientConfig()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.debug", false)

	v.SetDefault("provider.base_url", client.BaseURL)
	v.SetDefault("provider.language", client.Language)
	v.SetDefault("provider.tz", client.TZ)
	v.SetDefault("provider.retries", client.Retries)
	v.SetDefault("provider.backoff_factor", client.BackoffFactor.String())
	v.SetDefault("provider.qps", client.QPS)
	v.SetDefault("provider.burst", client.Burst)
	v.SetDefault("provider.warmup_cookies", client.WarmupCookies)
	v.SetDefault("provider.breaker_failures", client.BreakerFailures)
	v.SetDefault("provider.breaker_cooldown", client.BreakerCooldown.String())
	v.SetDefault("provider.connection.max_conns_per_host", client.Connection.MaxConnsPerHost)
	v.SetDefault("provider.connection.max_idle_conn_duration", client.Connection.MaxIdleConnDuration.String())
	v.SetDefault("provider.connection.read_timeout", client.Connection.ReadTimeout.String())
	v.SetDefault("provider.connection.write_timeout", client.Connection.WriteTimeout.String())
	v.SetDefault("provider.connection.request_timeout", client.Connection.RequestTimeout.String())
	v.SetDefault("provider.connection.user_agent", client.Connection.UserAgent)

	v.SetDefault("dashboard.title", "Google Trends Explorer")
	v.SetDefault("dashboard.template", charts.DefaultTemplate)
	v.SetDefault("dashboard.resolution", string(api.ResolutionCountry))
	v.SetDefault("dashboard.related_delay", "1s")

	v.SetDefault("session.cookie_name", "trends_session")
	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.secure", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "15:04:05")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	u, err := url.Parse(config.Provider.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid provider base_url: %q", config.Provider.BaseURL)
	}

	if config.Provider.Retries < 0 {
		return fmt.Errorf("provider retries cannot be negative")
	}
	if config.Provider.BreakerFailures > 0 && config.Provider.BreakerCooldown <= 0 {
		return fmt.Errorf("provider breaker_cooldown must be positive when the breaker is enabled")
	}

	if config.Provider.QPS < 0 {
		return fmt.Errorf("provider qps cannot be negative")
	}

	if config.Provider.Connection.RequestTimeout <= 0 {
		return fmt.Errorf("provider request_timeout must be positive")
	}

	if _, err := charts.LookupTemplate(config.Dashboard.Template); err != nil {
		return err
	}

	switch api.Resolution(strings.ToUpper(config.Dashboard.Resolution)) {
	case api.ResolutionCountry, api.ResolutionRegion, api.ResolutionCity, api.ResolutionDMA:
		config.Dashboard.Resolution = strings.ToUpper(config.Dashboard.Resolution)
	default:
		return fmt.Errorf("invalid dashboard resolution: %q", config.Dashboard.Resolution)
	}

	if config.Dashboard.RelatedDelay < 0 {
		return fmt.Errorf("related_delay cannot be negative")
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie_name cannot be empty")
	}

	if config.Session.MaxSessions <= 0 {
		return fmt.Errorf("session max_sessions must be positive")
	}

	return nil
}
