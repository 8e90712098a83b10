package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"subberthehut/internal/services"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// outcomeTagWidth fits the widest tag, "[SKIP]".
const outcomeTagWidth = 6

type outcomeStyle struct {
	tag   string
	color string
	// sep joins the file name and the detail.
	sep string
}

var outcomeStyles = map[services.Outcome]outcomeStyle{
	services.OutcomeSucceeded: {tag: "[OK]", color: ansiGreen, sep: " -> "},
	services.OutcomeSkipped:   {tag: "[SKIP]", color: ansiYellow, sep: ": "},
	services.OutcomeFailed:    {tag: "[FAIL]", color: ansiRed, sep: ": "},
}

// renderOutcomeLine prints one per-file result, e.g.
//
//	[OK]   (1/2) movie.mkv -> /media/movie.en.srt
//	[FAIL] (2/2) other.mkv: already_exists
//
// Only the tag is coloured.
func renderOutcomeLine(position, total int, name string, outcome services.Outcome, detail string, colorize bool) string {
	style, ok := outcomeStyles[outcome]
	if !ok {
		style = outcomeStyles[services.OutcomeFailed]
	}
	tag := fmt.Sprintf("%-*s", outcomeTagWidth, style.tag)
	if colorize {
		tag = style.color + tag + ansiReset
	}
	line := fmt.Sprintf("%s (%d/%d) %s", tag, position, total, name)
	if detail != "" {
		line += style.sep + detail
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
