package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subberthehut/internal/language"
	"subberthehut/internal/subtitles"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxColumnWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

const maxColumnWidth = 60

// candidateTable renders ranked candidates before the selection prompt.
type candidateTable struct {
	out io.Writer
}

func newCandidateTable(out io.Writer) *candidateTable {
	return &candidateTable{out: out}
}

func (t *candidateTable) Show(ranked subtitles.Ranked) error {
	_, err := fmt.Fprintln(t.out, renderCandidates(ranked))
	return err
}

func renderCandidates(ranked subtitles.Ranked) string {
	headers := []string{"#", "Hash", "Language", "Release", "File", "Downloads"}
	rows := make([][]string, 0, ranked.Len())
	for i, candidate := range ranked.Candidates {
		lang := candidate.LanguageName
		if lang == "" {
			lang = language.DisplayName(candidate.Language)
		}
		release := candidate.ReleaseName
		if release == "" {
			release = candidate.MovieName
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			yesNo(candidate.MatchedByHash),
			lang,
			release,
			candidate.FileName,
			candidate.Downloads,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
}
