package blobsort

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeBlob encodes values as a little-endian blob at dir/name and returns
// the path.
func writeBlob(t *testing.T, dir, name string, values []uint32) string {
	t.Helper()
	buf := make([]byte, len(values)*valueSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*valueSize:], v)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	return path
}

// readBlob decodes the blob at path back into values.
func readBlob(t *testing.T, path string) []uint32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if len(data)%valueSize != 0 {
		t.Fatalf("blob %s has %d bytes, not a multiple of %d", path, len(data), valueSize)
	}
	values := make([]uint32, len(data)/valueSize)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*valueSize:])
	}
	return values
}

// randomValues returns n deterministic pseudo-random values. The seed folds
// in n so differently sized inputs get different data.
func randomValues(n int) []uint32 {
	rng := rand.New(rand.NewSource(0xb10b ^ int64(n)))
	values := make([]uint32, n)
	for i := range values {
		values[i] = rng.Uint32()
	}
	return values
}

// repeatValue returns a slice of n copies of v.
func repeatValue(v uint32, n int) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// sortedCopy returns an ascending copy of values.
func sortedCopy(values []uint32) []uint32 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
