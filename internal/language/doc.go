// Package language maps user-supplied language names and ISO 639 codes onto
// the 3-letter sublanguageid values understood by the subtitle catalog.
package language
