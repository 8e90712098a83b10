package config

import (
	"fmt"
	"strings"

	"subberthehut/internal/language"
)

func (c *Config) normalize(env envSource) error {
	c.normalizeCatalog(env)
	if err := c.normalizeSearch(env); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCatalog(env envSource) {
	c.Catalog.Endpoint = strings.TrimSpace(c.Catalog.Endpoint)
	if c.Catalog.Endpoint == "" {
		c.Catalog.Endpoint = defaultEndpoint
	}
	if value, ok := env.lookup("OPENSUBTITLES_USER_AGENT"); ok && value != "" {
		c.Catalog.UserAgent = value
	}
	c.Catalog.UserAgent = strings.TrimSpace(c.Catalog.UserAgent)
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = defaultUserAgent
	}
	c.Catalog.LoginLanguage = strings.ToLower(strings.TrimSpace(c.Catalog.LoginLanguage))
	if c.Catalog.LoginLanguage == "" {
		c.Catalog.LoginLanguage = defaultLoginLanguage
	}
	if value, ok := env.lookup("OPENSUBTITLES_USERNAME"); ok {
		c.Catalog.Username = value
	}
	if value, ok := env.lookup("OPENSUBTITLES_PASSWORD"); ok {
		c.Catalog.Password = value
	}
	c.Catalog.Username = strings.TrimSpace(c.Catalog.Username)
}

func (c *Config) normalizeSearch(env envSource) error {
	if value, ok := env.lookup("SUBBERTHEHUT_LANG"); ok && value != "" {
		c.Search.Languages = strings.Split(value, ",")
	}
	if len(c.Search.Languages) == 0 {
		c.Search.Languages = []string{defaultLanguage}
	}
	langs, err := language.NormalizeList(c.Search.Languages)
	if err != nil {
		return fmt.Errorf("search.languages: %w", err)
	}
	c.Search.Languages = langs
	if c.Search.Limit == 0 {
		c.Search.Limit = defaultLimit
	}
	c.Search.Scope = strings.ToLower(strings.TrimSpace(c.Search.Scope))
	if c.Search.Scope == "" {
		c.Search.Scope = defaultScope
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = ""
		return nil
	}
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
