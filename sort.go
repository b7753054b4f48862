package blobsort

import (
	"context"
	"fmt"
	"os"

	bloberrors "github.com/tamirms/blobsort/errors"
	"golang.org/x/sync/errgroup"
)

// sorter carries the per-invocation state of one SortBlob32 call: the input
// handle shared by all leaf reads, the bounded buffer pool, and the scratch
// store holding intermediate runs.
type sorter struct {
	cfg     *sortConfig
	in      *os.File
	inSize  int64
	pool    *bufferPool
	scratch *scratchDir
}

// SortBlob32 sorts the blob at inputPath into outputPath.
//
// The input is a flat sequence of 4-byte little-endian unsigned values; its
// length must be a multiple of 4. The file is split recursively into ranges
// that fit one pool buffer, the leaf ranges are sorted concurrently, and the
// sorted runs are recombined with streaming two-way merges, so memory use
// stays bounded by the configured limit for inputs of any size.
//
// The call is synchronous. Cancellation via ctx is observed at recursion
// entries and buffer acquires; work already writing a run completes before
// the cancellation surfaces. The scratch directory is removed best-effort
// before any error is returned.
func SortBlob32(ctx context.Context, inputPath, outputPath string, opts ...Option) error {
	cfg, err := newSortConfig(opts)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	size := info.Size()
	if size%valueSize != 0 {
		return fmt.Errorf("%w: %d bytes", bloberrors.ErrNotMultipleOf4, size)
	}

	scratch, err := newScratchDir(cfg.tempDir)
	if err != nil {
		return err
	}
	defer scratch.removeAll()

	s := &sorter{
		cfg:     cfg,
		in:      in,
		inSize:  size,
		pool:    newBufferPool(cfg.bufferSize, cfg.bufferCount),
		scratch: scratch,
	}

	if _, err := s.solve(ctx, 0, size, outputPath); err != nil {
		return fmt.Errorf("sort %s: %w", inputPath, err)
	}
	return nil
}

// solve sorts the byte range [offset, offset+size) of the input and returns
// the path of the resulting run. dest forces the output path; the root call
// passes the caller's output path, every other node derives a scratch path
// from its range.
//
// Internal nodes fork both halves, join both before merging, and propagate
// the first failure after the join. A failing child cancels the sibling's
// context, but the sibling exits only at its next recursion entry or buffer
// acquire, so runs are never partially consumed.
func (s *sorter) solve(ctx context.Context, offset, size int64, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if dest == "" {
		dest = s.scratch.runPath(offset, size)
	}

	if size <= s.cfg.bufferSize {
		return s.sortLeaf(ctx, offset, size, dest)
	}

	// The left half rounds down to a whole number of values so both
	// subtasks keep the 4-byte alignment invariant.
	leftSize := size / (2 * valueSize) * valueSize
	rightSize := size - leftSize

	var leftPath, rightPath string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.solve(gctx, offset, leftSize, "")
		leftPath = p
		return err
	})
	g.Go(func() error {
		p, err := s.solve(gctx, offset+leftSize, rightSize, "")
		rightPath = p
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := mergeRuns(leftPath, rightPath, dest); err != nil {
		return "", err
	}

	// Consumed runs are deleted best-effort; the merge output is durable.
	s.scratch.removeRun(leftPath)
	s.scratch.removeRun(rightPath)
	return dest, nil
}
