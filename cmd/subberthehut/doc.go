// Package main hosts the subberthehut CLI entrypoint and command graph.
//
// The root command takes video files as arguments and downloads one subtitle
// per file from the catalog, sequentially and over a single session. Flags
// override the TOML configuration only when explicitly set. The config
// subcommands scaffold and check that configuration.
package main
