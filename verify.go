package blobsort

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	bloberrors "github.com/tamirms/blobsort/errors"
)

// VerifySorted checks that the blob at path is a well-formed sequence of
// 4-byte little-endian unsigned values in ascending order. The file is
// memory mapped so multi-gigabyte outputs can be scanned without loading
// them into the heap.
func VerifySorted(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open blob: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat blob: %w", err)
	}
	size := info.Size()
	if size%valueSize != 0 {
		return fmt.Errorf("%w: %d bytes", bloberrors.ErrNotMultipleOf4, size)
	}
	if size == 0 {
		return nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap blob: %w", err)
	}
	defer func() { _ = mm.Unmap() }()

	prev := binary.LittleEndian.Uint32(mm)
	for off := int64(valueSize); off < size; off += valueSize {
		v := binary.LittleEndian.Uint32(mm[off:])
		if v < prev {
			return fmt.Errorf("%w: %d at offset %d follows %d",
				bloberrors.ErrNotSorted, v, off, prev)
		}
		prev = v
	}
	return nil
}

// Checksum returns the streaming xxhash64 digest of the file at path.
// Matching digests make a cheap byte-identity check for determinism and
// idempotence of sorted outputs.
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open blob: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("read blob: %w", err)
	}
	return h.Sum64(), nil
}
