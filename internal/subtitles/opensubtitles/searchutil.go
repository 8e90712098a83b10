package opensubtitles

import (
	"strings"
)

// Query is one entry of the SearchSubtitles query array. A query carries
// either a fingerprint (MovieHash + MovieByteSize) or free text.
type Query struct {
	Languages     string
	MovieHash     string
	MovieByteSize string
	Text          string
}

func (q Query) params() map[string]any {
	params := map[string]any{
		"sublanguageid": q.Languages,
	}
	if q.MovieHash != "" {
		params["moviehash"] = q.MovieHash
		params["moviebytesize"] = q.MovieByteSize
	}
	if q.Text != "" {
		params["query"] = q.Text
	}
	return params
}

// HashQuery builds the fingerprint query.
func HashQuery(languages, hash, size string) Query {
	return Query{Languages: languages, MovieHash: hash, MovieByteSize: size}
}

// NameQuery builds the full-text query.
func NameQuery(languages, name string) Query {
	return Query{Languages: languages, Text: strings.TrimSpace(name)}
}

// Queries drops empty queries and duplicates while preserving order.
func Queries(candidates ...Query) []Query {
	unique := make([]Query, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, query := range candidates {
		if query.MovieHash == "" && query.Text == "" {
			continue
		}
		key := querySignature(query)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, query)
	}
	return unique
}

func querySignature(q Query) string {
	var builder strings.Builder
	builder.Grow(96)
	builder.WriteString("lang=")
	builder.WriteString(q.Languages)
	builder.WriteString("|hash=")
	builder.WriteString(q.MovieHash)
	builder.WriteString("|size=")
	builder.WriteString(q.MovieByteSize)
	builder.WriteString("|query=")
	builder.WriteString(q.Text)
	return builder.String()
}
