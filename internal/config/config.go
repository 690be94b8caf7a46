package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the studio dashboard.
type Config struct {
	// Dispatcher backend origin, e.g. "http://dispatcher.local:8080".
	// The realtime endpoint is derived from it (https origins get a
	// secure socket).
	DispatcherEndpoint string

	// Reconnect behaviour
	ReconnectDelay time.Duration // fixed delay between connection attempts

	// Historical graph images offered by the graph panel
	GraphURLs []string

	// Logging
	LogLevel string // DEBUG, INFO, WARN, ERROR
}

// Load reads configuration from environment variables and validates
// that all required values are present.
func Load() (*Config, error) {
	endpoint := os.Getenv("DISPATCHER_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("DISPATCHER_ENDPOINT is required")
	}

	reconnectSec, _ := strconv.Atoi(getEnv("RECONNECT_DELAY", "10"))
	if reconnectSec <= 0 {
		reconnectSec = 10
	}

	var graphs []string
	for _, u := range strings.Split(getEnv("GRAPH_URLS", ""), ",") {
		if u = strings.TrimSpace(u); u != "" {
			graphs = append(graphs, u)
		}
	}

	return &Config{
		DispatcherEndpoint: endpoint,
		ReconnectDelay:     time.Duration(reconnectSec) * time.Second,
		GraphURLs:          graphs,
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
