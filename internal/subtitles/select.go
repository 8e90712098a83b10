package subtitles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"subberthehut/internal/services"
)

// Display renders the candidate list before an interactive prompt.
type Display interface {
	Show(ranked Ranked) error
}

// Selection is the outcome of the selector.
type Selection struct {
	// Index is the 1-based position in the ranked list.
	Index     int
	FileID    int64
	FileName  string
	Candidate Candidate
	Prompted  bool
	Reason    string
}

// Selector picks a candidate by policy or by asking the user. The input is
// buffered once so consecutive prompts of a run share it.
type Selector struct {
	display Display
	input   *bufio.Reader
	output  io.Writer
}

// NewSelector builds a selector reading answers from in and writing prompts
// to out. A nil display shows nothing.
func NewSelector(display Display, in io.Reader, out io.Writer) *Selector {
	if out == nil {
		out = io.Discard
	}
	var reader *bufio.Reader
	if in != nil {
		reader = bufio.NewReader(in)
	}
	return &Selector{display: display, input: reader, output: out}
}

// Select applies, in order: empty list fails with ErrNoResults; a hash match
// with never-ask is taken; a hash match without always-ask is taken; never-ask
// takes the first candidate; otherwise the list is shown and the user chooses.
func (s *Selector) Select(ranked Ranked, policy Policy) (Selection, error) {
	total := ranked.Len()
	switch {
	case total == 0:
		return Selection{}, services.Wrap(services.ErrNoResults, "select", "", "no subtitles found", nil)
	case ranked.FirstHashMatch != 0 && policy.NeverAsk:
		return pick(ranked, ranked.FirstHashMatch, false, "hash match, never ask"), nil
	case ranked.FirstHashMatch != 0 && !policy.AlwaysAsk:
		return pick(ranked, ranked.FirstHashMatch, false, "hash match"), nil
	case policy.NeverAsk:
		return pick(ranked, 1, false, "first result, never ask"), nil
	}

	if s.display != nil {
		if err := s.display.Show(ranked); err != nil {
			return Selection{}, services.Wrap(services.ErrIO, "select", "render candidates", "", err)
		}
	}
	index, err := s.prompt(total)
	if err != nil {
		return Selection{}, err
	}
	return pick(ranked, index, true, "user choice"), nil
}

func (s *Selector) prompt(total int) (int, error) {
	if s.input == nil {
		return 0, services.Wrap(services.ErrIO, "select", "read choice", "no interactive input available", nil)
	}
	for {
		fmt.Fprintf(s.output, "Choose subtitle [1..%d]: ", total)
		line, err := s.input.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, services.Wrap(services.ErrIO, "select", "read choice", "", err)
		}
		answer := strings.TrimSpace(line)
		if answer != "" {
			if index, convErr := strconv.Atoi(answer); convErr == nil && index >= 1 && index <= total {
				return index, nil
			}
			fmt.Fprintf(s.output, "Invalid choice %q.\n", answer)
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.output)
			return 0, services.Wrap(services.ErrIO, "select", "read choice", "input closed before a valid choice", io.ErrUnexpectedEOF)
		}
	}
}

func pick(ranked Ranked, index int, prompted bool, reason string) Selection {
	candidate := ranked.Candidates[index-1]
	return Selection{
		Index:     index,
		FileID:    candidate.FileID,
		FileName:  candidate.FileName,
		Candidate: candidate,
		Prompted:  prompted,
		Reason:    reason,
	}
}
