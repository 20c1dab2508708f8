// internal/intake/config.go
package intake

import "time"

type Config struct {
	// NotifyTimeout bounds the webhook call.
	NotifyTimeout time.Duration
	MaxAge        int
}

func LoadConfig() *Config {
	return &Config{
		NotifyTimeout: 10 * time.Second,
		MaxAge:        100,
	}
}
