package fingerprint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ChunkSize is the number of bytes hashed from each end of the file.
const ChunkSize = 64 * 1024

// Fingerprint identifies a video file by content hash and size.
type Fingerprint struct {
	Hash uint64
	Size uint64
}

// Hex renders the hash in lowercase hexadecimal without zero padding, the
// form the catalog accepts as moviehash.
func (f Fingerprint) Hex() string {
	return strconv.FormatUint(f.Hash, 16)
}

// SizeString renders the size as a decimal string for moviebytesize.
func (f Fingerprint) SizeString() string {
	return strconv.FormatUint(f.Size, 10)
}

// ComputeFile opens path and fingerprints it.
func ComputeFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Compute(file)
}

// Compute fingerprints the stream. The hash starts at the stream size and adds
// every little-endian 64-bit word of the first ChunkSize bytes and of the
// window starting at max(0, size-ChunkSize). Addition wraps modulo 2^64.
// Files shorter than a chunk are hashed twice over the same bytes; a trailing
// partial word is ignored.
func Compute(r io.ReadSeeker) (Fingerprint, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("seek end: %w", err)
	}
	size := uint64(end)
	hash := size

	head, err := sumWindow(r, 0)
	if err != nil {
		return Fingerprint{}, err
	}
	hash += head

	var tailOffset int64
	if end > ChunkSize {
		tailOffset = end - ChunkSize
	}
	tail, err := sumWindow(r, tailOffset)
	if err != nil {
		return Fingerprint{}, err
	}
	hash += tail

	return Fingerprint{Hash: hash, Size: size}, nil
}

func sumWindow(r io.ReadSeeker, offset int64) (uint64, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek %d: %w", offset, err)
	}
	buf := make([]byte, ChunkSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read at %d: %w", offset, err)
	}
	var sum uint64
	for i := 0; i+8 <= n; i += 8 {
		sum += binary.LittleEndian.Uint64(buf[i : i+8])
	}
	return sum, nil
}
