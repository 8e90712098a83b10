package testsupport

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

// Pattern returns size bytes of a deterministic, non-repeating-per-word pattern.
func Pattern(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + i/256)
	}
	return data
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern and returns what was written. A size <= 0 writes
// an empty file.
func WriteFile(t testing.TB, path string, size int) []byte {
	t.Helper()

	if size < 0 {
		size = 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := Pattern(size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}

// EncodePayload gzips data and encodes it as standard Base64, the wire form of
// a downloaded subtitle.
func EncodePayload(t testing.TB, data []byte) string {
	t.Helper()

	var compressed bytes.Buffer
	writer := gzip.NewWriter(&compressed)
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return base64.StdEncoding.EncodeToString(compressed.Bytes())
}
