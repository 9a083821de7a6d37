package licenseapi

import "time"

// Config represents the configuration for the license API client
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api
	BaseURL string

	// Timeout bounds every request; zero means 30 seconds
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}
