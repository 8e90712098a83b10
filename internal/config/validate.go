package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.Endpoint)
	if err != nil {
		return fmt.Errorf("catalog.endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("catalog.endpoint must be an http or https URL, got %q", c.Catalog.Endpoint)
	}
	if parsed.Host == "" {
		return fmt.Errorf("catalog.endpoint is missing a host: %q", c.Catalog.Endpoint)
	}
	if c.Catalog.TimeoutSeconds < 0 {
		return errors.New("catalog.timeout_seconds must not be negative")
	}
	if c.Catalog.Password != "" && c.Catalog.Username == "" {
		return errors.New("catalog.password is set without catalog.username")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Limit < 1 || c.Search.Limit > maxLimit {
		return fmt.Errorf("search.limit must be between 1 and %d", maxLimit)
	}
	switch c.Search.Scope {
	case ScopeBoth, ScopeHash, ScopeName:
	default:
		return fmt.Errorf("search.scope must be one of %q, %q or %q, got %q", ScopeBoth, ScopeHash, ScopeName, c.Search.Scope)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
