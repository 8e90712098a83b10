package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// All is the catalog wildcard that disables language filtering.
const All = "all"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2/B, the form the catalog expects
	alt3    string   // ISO 639-2/T when it differs (e.g. "fra" vs "fre")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fre", "fra", "French", []string{"french"}},
	{"de", "ger", "deu", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "chi", "zho", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "dut", "nld", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"cs", "cze", "ces", "Czech", []string{"czech"}},
	{"el", "gre", "ell", "Greek", []string{"greek"}},
	{"ro", "rum", "ron", "Romanian", []string{"romanian"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"pb", "pob", "", "Portuguese (BR)", []string{"brazilian"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// CatalogCode converts a language code or word to the 3-letter code used as
// the catalog's sublanguageid. Unknown 3-letter codes pass through; other
// input is resolved through the CLDR base-language tables. Returns the empty
// string when nothing matches.
func CatalogCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if code == All {
		return All
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	if base, err := xlanguage.ParseBase(code); err == nil {
		return base.ISO3()
	}
	return ""
}

// ParseList splits a comma-separated language list into deduplicated catalog
// codes. "all" must appear on its own.
func ParseList(value string) ([]string, error) {
	return NormalizeList(strings.Split(value, ","))
}

// NormalizeList deduplicates and normalizes a list of language codes to catalog codes.
func NormalizeList(values []string) ([]string, error) {
	normalized := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		code := CatalogCode(trimmed)
		if code == "" {
			return nil, fmt.Errorf("unknown language %q", trimmed)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("no languages specified")
	}
	if _, ok := seen[All]; ok && len(normalized) > 1 {
		return nil, fmt.Errorf("%q cannot be combined with other languages", All)
	}
	return normalized, nil
}

// Join renders a normalized list the way the catalog expects it.
func Join(codes []string) string {
	if len(codes) == 0 {
		return All
	}
	return strings.Join(codes, ",")
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	switch trimmed {
	case "":
		return "Unknown"
	case All:
		return "All languages"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if base, err := xlanguage.ParseBase(trimmed); err == nil {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}
