package api

import (
	"time"

	"github.com/valyala/fasthttp"

	"trends-go/pkg/logger"
)

// ConnectionConfig holds configuration for provider connections
type ConnectionConfig struct {
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `mapstructure:"max_idle_conn_duration"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	UserAgent           string        `mapstructure:"user_agent"`
}

// DefaultConnectionConfig returns connection settings suited to a handful of
// sequential requests per analysis.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     8,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         25 * time.Second,
		WriteTimeout:        10 * time.Second,
		RequestTimeout:      25 * time.Second,
		UserAgent:           "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	}
}

// ConnectionManager owns the pooled fasthttp client used for provider calls.
type ConnectionManager struct {
	config ConnectionConfig
	client *fasthttp.Client
	log    *logger.Logger
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	defaults := DefaultConnectionConfig()
	if config.MaxConnsPerHost <= 0 {
		config.MaxConnsPerHost = defaults.MaxConnsPerHost
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	client := &fasthttp.Client{
		Name:                     config.UserAgent,
		MaxConnsPerHost:          config.MaxConnsPerHost,
		MaxIdleConnDuration:      config.MaxIdleConnDuration,
		ReadTimeout:              config.ReadTimeout,
		WriteTimeout:             config.WriteTimeout,
		NoDefaultUserAgentHeader: false,
	}

	return &ConnectionManager{
		config: config,
		client: client,
		log:    logger.GetLogger().Component("connection_manager"),
	}
}

// Client returns the managed client.
func (cm *ConnectionManager) Client() *fasthttp.Client {
	return cm.client
}

// Do sends req with the configured request timeout.
func (cm *ConnectionManager) Do(req *fasthttp.Request, resp *fasthttp.Response) error {
	return cm.client.DoTimeout(req, resp, cm.config.RequestTimeout)
}

func (cm *ConnectionManager) Config() ConnectionConfig {
	return cm.config
}

// Close closes all idle connections
func (cm *ConnectionManager) Close() {
	cm.log.Debug("Closing connection manager")
	cm.client.CloseIdleConnections()
}
