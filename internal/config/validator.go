package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Validate checks the configuration for values that would break startup or
// silently disable a subsystem.
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}

	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	if err := validateBaseURL("ML base URL", c.MLBaseURL); err != nil {
		errors = append(errors, err.Error())
	}
	if err := validateBaseURL("budget base URL", c.BudgetBaseURL); err != nil {
		errors = append(errors, err.Error())
	}

	if c.MLTimeout < time.Second {
		errors = append(errors, "ML timeout must be at least 1 second")
	}
	if c.BudgetTimeout < time.Second {
		errors = append(errors, "budget timeout must be at least 1 second")
	}
	if c.BudgetRateLimitPerSec < 1 {
		errors = append(errors, "budget rate limit must be at least 1 request per second")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errors, "; "))
	}
	return nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %s", name, raw)
	}
	return nil
}
