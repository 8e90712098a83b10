package fingerprint_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"subberthehut/internal/fingerprint"
)

func wordSum(data []byte) uint64 {
	var sum uint64
	for i := 0; i+8 <= len(data); i += 8 {
		sum += binary.LittleEndian.Uint64(data[i : i+8])
	}
	return sum
}

func expected(data []byte) uint64 {
	size := len(data)
	head := data
	if size > fingerprint.ChunkSize {
		head = data[:fingerprint.ChunkSize]
	}
	tail := data
	if size > fingerprint.ChunkSize {
		tail = data[size-fingerprint.ChunkSize:]
	}
	return uint64(size) + wordSum(head) + wordSum(tail)
}

func patterned(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*31 + i/251)
	}
	return data
}

func TestComputeEmpty(t *testing.T) {
	fp, err := fingerprint.Compute(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if fp.Hash != 0 || fp.Size != 0 {
		t.Fatalf("expected zero fingerprint, got %+v", fp)
	}
	if fp.Hex() != "0" {
		t.Fatalf("expected hex 0, got %q", fp.Hex())
	}
}

func TestComputeSingleWordCountsTwice(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, 5)
	fp, err := fingerprint.Compute(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if fp.Hash != 8+5+5 {
		t.Fatalf("expected hash 18, got %d", fp.Hash)
	}
	if fp.Hex() != "12" {
		t.Fatalf("expected hex 12, got %q", fp.Hex())
	}
}

func TestComputeIgnoresTrailingPartialWord(t *testing.T) {
	data := make([]byte, 13)
	binary.LittleEndian.PutUint64(data, 1)
	for i := 8; i < 13; i++ {
		data[i] = 0xff
	}
	fp, err := fingerprint.Compute(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if fp.Hash != 13+1+1 {
		t.Fatalf("expected hash 15, got %d", fp.Hash)
	}
	if fp.Size != 13 {
		t.Fatalf("expected size 13, got %d", fp.Size)
	}
}

func TestComputeWraps(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[:8], ^uint64(0))
	binary.LittleEndian.PutUint64(data[8:], 2)
	fp, err := fingerprint.Compute(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	// 16 + 2*(2^64-1 + 2) mod 2^64 = 16 + 2*1
	if fp.Hash != 18 {
		t.Fatalf("expected wrapped hash 18, got %d", fp.Hash)
	}
}

func TestComputeMatchesClosedForm(t *testing.T) {
	for _, size := range []int{100, fingerprint.ChunkSize, fingerprint.ChunkSize + 3, 200000} {
		data := patterned(size)
		fp, err := fingerprint.Compute(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("size %d: Compute returned error: %v", size, err)
		}
		if want := expected(data); fp.Hash != want {
			t.Fatalf("size %d: expected hash %x, got %x", size, want, fp.Hash)
		}
		if fp.Size != uint64(size) {
			t.Fatalf("size %d: unexpected size %d", size, fp.Size)
		}
	}
}

// Fixture hashes for data[i] = byte(i % 251), checked against an
// independent implementation of the catalog's hashing routine.
func TestComputeKnownFixtures(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{size: 1000, want: "80f0a0f16111b82"},
		{size: fingerprint.ChunkSize, want: "d48b4000b76d0d86"},
		{size: 150001, want: "5c17731eda588ac"},
	}
	for _, tt := range tests {
		data := make([]byte, tt.size)
		for i := range data {
			data[i] = byte(i % 251)
		}
		fp, err := fingerprint.Compute(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("size %d: Compute returned error: %v", tt.size, err)
		}
		if got := fp.Hex(); got != tt.want {
			t.Fatalf("size %d: hash %s, want %s", tt.size, got, tt.want)
		}
	}
}

func TestComputeZeroFileHashIsSize(t *testing.T) {
	fp, err := fingerprint.Compute(bytes.NewReader(make([]byte, 100000)))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if fp.Hash != 100000 || fp.Hex() != "186a0" {
		t.Fatalf("unexpected hash %s", fp.Hex())
	}
}

func TestComputeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mkv")
	data := patterned(200000)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fp, err := fingerprint.ComputeFile(path)
	if err != nil {
		t.Fatalf("ComputeFile returned error: %v", err)
	}
	if fp.Hash != expected(data) {
		t.Fatalf("unexpected hash %s", fp.Hex())
	}
	if fp.SizeString() != "200000" {
		t.Fatalf("unexpected size string %q", fp.SizeString())
	}

	if _, err := fingerprint.ComputeFile(filepath.Join(t.TempDir(), "missing.mkv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
