package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// FallbackFileName replaces remote names that sanitize to nothing usable.
const FallbackFileName = "subtitle"

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// RemoteFileName makes a catalog-supplied file name safe to join onto a local
// directory: it can never contain a separator or name a directory entry such
// as "..". The second result reports whether the name was changed.
func RemoteFileName(name string) (string, bool) {
	safe := SanitizeFileName(name)
	if strings.Trim(safe, ".") == "" {
		safe = FallbackFileName
	}
	return safe, safe != name
}
