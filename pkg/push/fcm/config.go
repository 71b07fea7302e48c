package fcm

import "time"

// DefaultSendEndpoint is the FCM legacy HTTP send endpoint
const DefaultSendEndpoint = "https://fcm.googleapis.com/fcm/send"

// Config represents the configuration for the FCM client
type Config struct {
	// ServerKey is the FCM server key for API authentication.
	// Empty means push delivery is disabled; the client reports unavailable.
	ServerKey string

	// BaseURL is the FCM send endpoint
	BaseURL string

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// Validate checks if the configuration is complete enough to send
func (c *Config) Validate() error {
	if c.ServerKey == "" {
		return ErrNotConfigured
	}
	if c.BaseURL == "" {
		return ErrNotConfigured
	}
	return nil
}
