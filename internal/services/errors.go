package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRemoteFault   = errors.New("remote fault")
	ErrNoResults     = errors.New("no results")
	ErrParse         = errors.New("parse error")
	ErrAlreadyExists = errors.New("already exists")
	ErrDecode        = errors.New("decode error")
	ErrIO            = errors.New("io error")
	ErrConfiguration = errors.New("configuration error")
)

// Outcome describes how a per-file failure affects the rest of a run.
type Outcome int

const (
	// OutcomeSucceeded means the subtitle was written.
	OutcomeSucceeded Outcome = iota
	// OutcomeSkipped means the file produced nothing but never aborts the run.
	OutcomeSkipped
	// OutcomeFailed means the file failed; the run stops when exit-on-fail is set.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a per-file error to the outcome the run loop acts on.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrNoResults):
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}

// Kind returns a short label for the marker carried by err, suitable for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteFault):
		return "remote_fault"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "io_error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
