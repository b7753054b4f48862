// Package errors defines all exported error sentinels for the blobsort
// library.
//
// This is the single source of truth for error values. Both the top-level
// blobsort package and its command-line tools import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrNotMultipleOf4     = errors.New("blobsort: input size is not a multiple of 4")
	ErrInvalidMemoryLimit = errors.New("blobsort: memory limit must be positive")
	ErrInvalidParallelism = errors.New("blobsort: parallelism must be positive")
	ErrInvalidBufferSize  = errors.New("blobsort: buffer size must be a positive multiple of 4")
)

// I/O errors
var (
	ErrTruncatedRun = errors.New("blobsort: run file is truncated")
)

// Verification errors
var (
	ErrNotSorted = errors.New("blobsort: values are not in ascending order")
)
