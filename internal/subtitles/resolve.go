package subtitles

import (
	"os"
	"strings"
)

// DefaultExtension is used when the remote file name carries none.
const DefaultExtension = ".srt"

const pathSeparators = "/" + string(os.PathSeparator)

// ResolvePath decides where a subtitle is written next to source.
//
// Without sameName the remote file name is placed in the source's directory.
// With sameName the source's extension is replaced by the remote one; the
// second result reports that DefaultExtension was substituted. A source
// without an extension is cut one character before its end.
func ResolvePath(source, remote string, sameName bool) (string, bool) {
	sep := strings.LastIndexAny(source, pathSeparators)
	if !sameName {
		if sep < 0 {
			return remote, false
		}
		return source[:sep+1] + remote, false
	}

	ext, defaulted := DefaultExtension, true
	if dot := strings.LastIndex(remote, "."); dot >= 0 {
		ext, defaulted = remote[dot:], false
	}

	cut := strings.LastIndex(source, ".")
	if cut <= sep {
		cut = max(len(source)-1, 0)
	}
	return source[:cut] + ext, defaulted
}
