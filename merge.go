package blobsort

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	bloberrors "github.com/tamirms/blobsort/errors"
)

const (
	// valueSize is the fixed width of one unsigned 32-bit value on disk.
	valueSize = 4

	// mergeBufSize is the bufio buffer size per merge stream. Merge nodes do
	// not draw from the buffer pool; they stream through small fixed buffers
	// regardless of run size.
	mergeBufSize = 256 * 1024
)

// runReader streams values out of a sorted run file one at a time.
type runReader struct {
	f    *os.File
	r    *bufio.Reader
	head uint32
	ok   bool // head holds an unconsumed value
}

func openRun(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run file: %w", err)
	}
	fadviseSequential(int(f.Fd()), 0, 0)
	return &runReader{f: f, r: bufio.NewReaderSize(f, mergeBufSize)}, nil
}

// next loads the following value into head. ok becomes false after a clean
// EOF at a value boundary; a tail shorter than one value is a truncated run.
func (rr *runReader) next() error {
	var b [valueSize]byte
	_, err := io.ReadFull(rr.r, b[:])
	switch {
	case err == io.EOF:
		rr.ok = false
		return nil
	case err == io.ErrUnexpectedEOF:
		return fmt.Errorf("%w: %s", bloberrors.ErrTruncatedRun, rr.f.Name())
	case err != nil:
		return fmt.Errorf("read run file %s: %w", rr.f.Name(), err)
	}
	rr.head = binary.LittleEndian.Uint32(b[:])
	rr.ok = true
	return nil
}

func (rr *runReader) close() {
	_ = rr.f.Close()
}

// mergeRuns streams two ascending-sorted runs into one ascending-sorted
// output whose length is the sum of the input lengths. On equal heads the
// left value is emitted first. The inputs are not deleted here; the caller
// removes them after a successful merge.
func mergeRuns(leftPath, rightPath, outPath string) error {
	left, err := openRun(leftPath)
	if err != nil {
		return err
	}
	defer left.close()

	right, err := openRun(rightPath)
	if err != nil {
		return err
	}
	defer right.close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create merge output: %w", err)
	}

	if err := reserveMergeOutput(out, left.f, right.f); err != nil {
		return errors.Join(err, out.Close(), os.Remove(outPath))
	}

	if err := merge(left, right, bufio.NewWriterSize(out, mergeBufSize)); err != nil {
		// Remove the partial output so it can never be consumed as a run.
		return errors.Join(err, out.Close(), os.Remove(outPath))
	}

	if err := out.Close(); err != nil {
		primaryErr := fmt.Errorf("close merge output: %w", err)
		return errors.Join(primaryErr, os.Remove(outPath))
	}
	return nil
}

// reserveMergeOutput pre-allocates the output to the combined input size.
func reserveMergeOutput(out, left, right *os.File) error {
	li, err := left.Stat()
	if err != nil {
		return fmt.Errorf("stat run file: %w", err)
	}
	ri, err := right.Stat()
	if err != nil {
		return fmt.Errorf("stat run file: %w", err)
	}
	if total := li.Size() + ri.Size(); total > 0 {
		if err := fallocateFile(out, total); err != nil {
			return fmt.Errorf("pre-allocate merge output: %w", err)
		}
	}
	return nil
}

func merge(left, right *runReader, w *bufio.Writer) error {
	if err := left.next(); err != nil {
		return err
	}
	if err := right.next(); err != nil {
		return err
	}

	var b [valueSize]byte
	for left.ok && right.ok {
		// <= keeps the tie-break deterministic: left wins.
		src := right
		if left.head <= right.head {
			src = left
		}
		binary.LittleEndian.PutUint32(b[:], src.head)
		if _, err := w.Write(b[:]); err != nil {
			return fmt.Errorf("write merge output: %w", err)
		}
		if err := src.next(); err != nil {
			return err
		}
	}

	// One side is exhausted; drain the survivor unchanged.
	for _, rr := range []*runReader{left, right} {
		if !rr.ok {
			continue
		}
		binary.LittleEndian.PutUint32(b[:], rr.head)
		if _, err := w.Write(b[:]); err != nil {
			return fmt.Errorf("write merge output: %w", err)
		}
		if _, err := io.Copy(w, rr.r); err != nil {
			return fmt.Errorf("drain run file %s: %w", rr.f.Name(), err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush merge output: %w", err)
	}
	return nil
}
