// Package config loads, normalizes, and validates subberthehut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENSUBTITLES_USER_AGENT, read from the process environment or from a .env
// file next to the config file. Command-line flags layer on top of the
// returned Config; settings that only make sense per invocation never live
// here.
package config
