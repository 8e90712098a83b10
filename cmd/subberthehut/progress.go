package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"subberthehut/internal/subtitles"
)

func newProgressFactory(w io.Writer) subtitles.ProgressFactory {
	return func(total int64, description string) subtitles.Progress {
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
}
