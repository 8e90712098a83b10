package opensubtitles

import (
	"fmt"
	"strconv"
)

// Hit is one raw search result. The catalog reports every member as a string;
// IDSubtitleFile stays opaque here and is parsed by the caller.
type Hit struct {
	IDSubtitleFile   string
	MatchedBy        string
	SubLanguageID    string
	LanguageName     string
	MovieName        string
	MovieReleaseName string
	SubFileName      string
	SubDownloadsCnt  string
}

// HashMatched reports whether the catalog matched this hit by fingerprint.
func (h Hit) HashMatched() bool {
	return h.MatchedBy == MatchedByHash
}

func hitFromMember(member map[string]any) Hit {
	return Hit{
		IDSubtitleFile:   memberString(member, "IDSubtitleFile"),
		MatchedBy:        memberString(member, "MatchedBy"),
		SubLanguageID:    memberString(member, "SubLanguageID"),
		LanguageName:     memberString(member, "LanguageName"),
		MovieName:        memberString(member, "MovieName"),
		MovieReleaseName: memberString(member, "MovieReleaseName"),
		SubFileName:      memberString(member, "SubFileName"),
		SubDownloadsCnt:  memberString(member, "SubDownloadsCnt"),
	}
}

func memberString(member map[string]any, key string) string {
	switch value := member[key].(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
