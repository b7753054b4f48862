package blobsort

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// valueView exposes a raw little-endian value buffer to sort.Interface
// without decoding it into a separate []uint32, keeping per-leaf memory at
// exactly one pool buffer. Stability is not required: equal values are
// indistinguishable.
type valueView []byte

func (v valueView) Len() int { return len(v) / valueSize }

func (v valueView) Less(i, j int) bool {
	return binary.LittleEndian.Uint32(v[i*valueSize:]) < binary.LittleEndian.Uint32(v[j*valueSize:])
}

func (v valueView) Swap(i, j int) {
	var tmp [valueSize]byte
	a := v[i*valueSize : (i+1)*valueSize]
	b := v[j*valueSize : (j+1)*valueSize]
	copy(tmp[:], a)
	copy(a, b)
	copy(b, tmp[:])
}

// sortLeaf reads [offset, offset+size) of the input into a pool buffer,
// sorts the values in place, and writes the run to dest. size never exceeds
// one buffer. The lease is released on every exit path, waking one waiting
// leaf sort.
func (s *sorter) sortLeaf(ctx context.Context, offset, size int64, dest string) (string, error) {
	l, err := s.pool.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer l.release()

	buf := l.bytes(size)
	if _, err := io.ReadFull(io.NewSectionReader(s.in, offset, size), buf); err != nil {
		return "", fmt.Errorf("read input range [%d,%d): %w", offset, offset+size, err)
	}

	sort.Sort(valueView(buf))

	if err := writeRun(dest, buf); err != nil {
		return "", err
	}
	return dest, nil
}

// writeRun writes a fully sorted run to path. Disk space is reserved up
// front so a full disk fails before any bytes are written; a partial run is
// removed so parents never merge truncated inputs.
func writeRun(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create run file: %w", err)
	}
	if len(data) > 0 {
		if err := fallocateFile(f, int64(len(data))); err != nil {
			primaryErr := fmt.Errorf("pre-allocate run file: %w", err)
			return errors.Join(primaryErr, f.Close(), os.Remove(path))
		}
	}
	if _, err := f.Write(data); err != nil {
		primaryErr := fmt.Errorf("write run file: %w", err)
		return errors.Join(primaryErr, f.Close(), os.Remove(path))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close run file: %w", err)
	}
	return nil
}
