package subtitles

import (
	"errors"
	"testing"

	"subberthehut/internal/services"
	"subberthehut/internal/subtitles/opensubtitles"
)

func hit(id, matchedBy string) opensubtitles.Hit {
	return opensubtitles.Hit{IDSubtitleFile: id, MatchedBy: matchedBy, SubFileName: "sub" + id + ".srt", SubLanguageID: "eng"}
}

func ids(ranked Ranked) []int64 {
	out := make([]int64, 0, ranked.Len())
	for _, c := range ranked.Candidates {
		out = append(out, c.FileID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionKeepsResponseOrder(t *testing.T) {
	hits := []opensubtitles.Hit{
		hit("1", "fulltext"),
		hit("2", opensubtitles.MatchedByHash),
		hit("3", "fulltext"),
		hit("4", opensubtitles.MatchedByHash),
	}
	hashHits, nameHits := Partition(hits)
	if len(hashHits) != 2 || hashHits[0].IDSubtitleFile != "2" || hashHits[1].IDSubtitleFile != "4" {
		t.Fatalf("unexpected hash hits: %+v", hashHits)
	}
	if len(nameHits) != 2 || nameHits[0].IDSubtitleFile != "1" || nameHits[1].IDSubtitleFile != "3" {
		t.Fatalf("unexpected name hits: %+v", nameHits)
	}
}

func TestRankScopes(t *testing.T) {
	hashHits := []opensubtitles.Hit{hit("10", opensubtitles.MatchedByHash), hit("11", opensubtitles.MatchedByHash)}
	nameHits := []opensubtitles.Hit{hit("20", "fulltext"), hit("21", "imdbid")}

	tests := []struct {
		name      string
		scope     Scope
		want      []int64
		wantFirst int
	}{
		{name: "both", scope: ScopeBoth, want: []int64{10, 11, 20, 21}, wantFirst: 1},
		{name: "hash only", scope: ScopeHashOnly, want: []int64{10, 11}, wantFirst: 1},
		{name: "name only", scope: ScopeNameOnly, want: []int64{20, 21}, wantFirst: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := Rank(hashHits, nameHits, Policy{Scope: tt.scope})
			if err != nil {
				t.Fatalf("Rank returned error: %v", err)
			}
			if got := ids(ranked); !equalIDs(got, tt.want) {
				t.Fatalf("unexpected order: got %v want %v", got, tt.want)
			}
			if ranked.FirstHashMatch != tt.wantFirst {
				t.Fatalf("unexpected first hash match: got %d want %d", ranked.FirstHashMatch, tt.wantFirst)
			}
			for _, c := range ranked.Candidates {
				if tt.scope == ScopeHashOnly && !c.MatchedByHash {
					t.Fatalf("hash-only result contains name match %+v", c)
				}
				if tt.scope == ScopeNameOnly && c.MatchedByHash {
					t.Fatalf("name-only result contains hash match %+v", c)
				}
			}
		})
	}
}

func TestRankFirstHashMatchAfterNameMatches(t *testing.T) {
	// A hash match inside the name group still counts.
	ranked, err := Rank(nil, []opensubtitles.Hit{hit("1", "fulltext"), hit("2", opensubtitles.MatchedByHash)}, Policy{})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if ranked.FirstHashMatch != 2 {
		t.Fatalf("expected first hash match 2, got %d", ranked.FirstHashMatch)
	}
}

func TestRankRejectsNonNumericID(t *testing.T) {
	_, err := Rank([]opensubtitles.Hit{hit("12ab", opensubtitles.MatchedByHash)}, nil, Policy{})
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	// Excluded groups are never parsed.
	if _, err := Rank([]opensubtitles.Hit{hit("bad", opensubtitles.MatchedByHash)}, nil, Policy{Scope: ScopeNameOnly}); err != nil {
		t.Fatalf("excluded group should not be parsed: %v", err)
	}
}

func TestParseScope(t *testing.T) {
	for input, want := range map[string]Scope{"": ScopeBoth, "both": ScopeBoth, "HASH": ScopeHashOnly, " name ": ScopeNameOnly} {
		got, err := ParseScope(input)
		if err != nil || got != want {
			t.Fatalf("ParseScope(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseScope("fuzzy"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}
