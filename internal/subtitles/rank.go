package subtitles

import (
	"fmt"
	"strconv"
	"strings"

	"subberthehut/internal/services"
	"subberthehut/internal/subtitles/opensubtitles"
)

// Candidate is one selectable search result.
type Candidate struct {
	ExternalID    string
	FileID        int64
	MatchedByHash bool
	Language      string
	LanguageName  string
	MovieName     string
	ReleaseName   string
	FileName      string
	Downloads     string
}

// Ranked is the ordered candidate list plus the 1-based position of the first
// hash match (0 when there is none).
type Ranked struct {
	Candidates     []Candidate
	FirstHashMatch int
}

// Len returns the number of candidates.
func (r Ranked) Len() int { return len(r.Candidates) }

// Partition splits one search response into hash matches and name matches,
// keeping response order inside each group.
func Partition(hits []opensubtitles.Hit) (hashHits, nameHits []opensubtitles.Hit) {
	for _, hit := range hits {
		if hit.HashMatched() {
			hashHits = append(hashHits, hit)
		} else {
			nameHits = append(nameHits, hit)
		}
	}
	return hashHits, nameHits
}

// Rank orders hash matches before name matches, dropping the group the policy
// excludes. A non-numeric subtitle file id fails the whole ranking.
func Rank(hashHits, nameHits []opensubtitles.Hit, policy Policy) (Ranked, error) {
	ranked := Ranked{Candidates: make([]Candidate, 0, len(hashHits)+len(nameHits))}
	if !policy.NameOnly() {
		if err := ranked.append(hashHits); err != nil {
			return Ranked{}, err
		}
	}
	if !policy.HashOnly() {
		if err := ranked.append(nameHits); err != nil {
			return Ranked{}, err
		}
	}
	for i, candidate := range ranked.Candidates {
		if candidate.MatchedByHash {
			ranked.FirstHashMatch = i + 1
			break
		}
	}
	return ranked, nil
}

func (r *Ranked) append(hits []opensubtitles.Hit) error {
	for _, hit := range hits {
		candidate, err := candidateFromHit(hit)
		if err != nil {
			return err
		}
		r.Candidates = append(r.Candidates, candidate)
	}
	return nil
}

func candidateFromHit(hit opensubtitles.Hit) (Candidate, error) {
	id := strings.TrimSpace(hit.IDSubtitleFile)
	fileID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Candidate{}, services.Wrap(services.ErrParse, "rank", "parse subtitle id", fmt.Sprintf("IDSubtitleFile %q", hit.IDSubtitleFile), err)
	}
	return Candidate{
		ExternalID:    hit.IDSubtitleFile,
		FileID:        fileID,
		MatchedByHash: hit.HashMatched(),
		Language:      hit.SubLanguageID,
		LanguageName:  hit.LanguageName,
		MovieName:     hit.MovieName,
		ReleaseName:   hit.MovieReleaseName,
		FileName:      hit.SubFileName,
		Downloads:     hit.SubDownloadsCnt,
	}, nil
}
