package compostmatch

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string

	keyPrefix string
	debounce  time.Duration

	modelAPIKey      string
	modelBaseURL     string
	modelName        string
	modelTemperature float32

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedisCluster configures the client with multiple seed addresses.
func WithRedisCluster(addrs []string, username, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.username = username
		c.password = password
	}
}

// WithModel enables the generative-model path for search, suggestions, and
// chat. Without it the client runs on deterministic fallbacks.
func WithModel(apiKey, baseURL, name string) Option {
	return func(c *clientConfig) {
		c.modelAPIKey = apiKey
		c.modelBaseURL = baseURL
		c.modelName = name
	}
}

// WithModelTemperature sets the sampling temperature for model calls.
func WithModelTemperature(t float32) Option {
	return func(c *clientConfig) {
		c.modelTemperature = t
	}
}

// WithKeyPrefix sets the storage key namespace. Default: "compost:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithDebounce sets the quiet period for interactive search sessions.
// Default: 800ms.
func WithDebounce(d time.Duration) Option {
	return func(c *clientConfig) {
		c.debounce = d
	}
}

// WithLogger enables structured logging for client operations.
// Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
