package subtitles

import (
	"bufio"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"subberthehut/internal/services"
)

// ChunkSize is the buffer size of each pipeline stage.
const ChunkSize = 64 * 1024

// Progress observes consumption of the encoded payload.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	io.Writer
	Finish() error
}

// RetrieveOptions controls Retrieve.
type RetrieveOptions struct {
	Overwrite bool
	Progress  Progress
}

// RetrieveResult reports byte counts of a completed retrieval.
type RetrieveResult struct {
	Path            string
	EncodedBytes    int64
	CompressedBytes int64
	WrittenBytes    int64
	// ProgressErr is the Finish error of the progress sink. It never fails
	// the retrieval.
	ProgressErr error
}

// Retrieve decodes a Base64-of-gzip payload straight into destination,
// one chunk at a time: Base64 decoding feeds the gzip inflater, whose output
// is appended to the file. Decoding stops at the end of the first gzip member.
//
// An existing destination fails with ErrAlreadyExists unless Overwrite is set
// and is left untouched. An empty payload produces an empty file. On a decode
// or write failure the partial file stays on disk.
func Retrieve(payload, destination string, opts RetrieveOptions) (RetrieveResult, error) {
	result := RetrieveResult{Path: destination}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(destination, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return result, services.Wrap(services.ErrAlreadyExists, "retrieve", "open destination", destination+" exists, use --force to overwrite", err)
		}
		return result, services.Wrap(services.ErrIO, "retrieve", "open destination", destination, err)
	}

	written, decodeErr := pump(payload, file, opts.Progress, &result)
	result.WrittenBytes = written
	closeErr := file.Close()
	if opts.Progress != nil {
		result.ProgressErr = opts.Progress.Finish()
	}
	if decodeErr != nil {
		return result, decodeErr
	}
	if closeErr != nil {
		return result, services.Wrap(services.ErrIO, "retrieve", "close destination", destination, closeErr)
	}
	return result, nil
}

func pump(payload string, dst io.Writer, progress Progress, result *RetrieveResult) (int64, error) {
	source := &countingReader{r: strings.NewReader(payload)}
	var encoded io.Reader = source
	if progress != nil {
		encoded = io.TeeReader(source, progress)
	}
	compressed := &countingReader{r: base64.NewDecoder(base64.StdEncoding, encoded)}
	buffered := bufio.NewReaderSize(compressed, ChunkSize)
	defer func() {
		result.EncodedBytes = source.n
		result.CompressedBytes = compressed.n
	}()

	if _, err := buffered.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, services.Wrap(services.ErrDecode, "retrieve", "decode base64", "", err)
	}

	inflater, err := gzip.NewReader(buffered)
	if err != nil {
		return 0, services.Wrap(services.ErrDecode, "retrieve", "open gzip stream", "", err)
	}
	defer inflater.Close()
	inflater.Multistream(false)

	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, readErr := inflater.Read(buf)
		if n > 0 {
			m, writeErr := dst.Write(buf[:n])
			written += int64(m)
			if writeErr != nil {
				return written, services.Wrap(services.ErrIO, "retrieve", "write destination", "", writeErr)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, services.Wrap(services.ErrDecode, "retrieve", "inflate", "", readErr)
		}
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
