package sse

import "time"

// DefaultKeepAlive is short enough for common proxy idle timeouts.
const DefaultKeepAlive = 10 * time.Second

// Config controls generation streams. A zero KeepAliveInterval disables pings.
type Config struct {
	KeepAliveInterval time.Duration
}

func DefaultConfig() *Config {
	return &Config{KeepAliveInterval: DefaultKeepAlive}
}
