// Package services holds the error vocabulary and context annotations shared
// by the catalog client, the subtitle pipeline and the CLI.
//
// Every failure that crosses a package boundary is tagged with one of the
// sentinel markers so the run loop can decide, with errors.Is, whether a file
// was skipped or failed without parsing messages.
package services
