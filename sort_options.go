package blobsort

import (
	"runtime"

	bloberrors "github.com/tamirms/blobsort/errors"
)

const (
	// defaultMemoryLimit caps the total size of pooled sort buffers.
	defaultMemoryLimit = 256 << 20

	// buffersPerWorker keeps two buffers in flight per worker so one range
	// can be sorted while another is being read.
	buffersPerWorker = 2
)

// Option is a functional option for configuring a sort.
type Option func(*sortConfig)

type sortConfig struct {
	memoryLimit int64
	parallelism int
	bufferSize  int64 // explicit override; 0 derives from memoryLimit
	tempDir     string

	bufferCount int // derived in newSortConfig
}

// newSortConfig applies opts over the defaults and derives the buffer
// geometry: bufferCount buffers of bufferSize bytes, with
// bufferCount*bufferSize bounded by memoryLimit unless the buffer size was
// overridden explicitly.
func newSortConfig(opts []Option) (*sortConfig, error) {
	cfg := &sortConfig{
		memoryLimit: defaultMemoryLimit,
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.memoryLimit <= 0 {
		return nil, bloberrors.ErrInvalidMemoryLimit
	}
	if cfg.parallelism <= 0 {
		return nil, bloberrors.ErrInvalidParallelism
	}
	if cfg.bufferSize == 0 {
		// Round down to whole values so leaf ranges stay 4-byte aligned.
		cfg.bufferSize = cfg.memoryLimit / int64(buffersPerWorker*cfg.parallelism) / valueSize * valueSize
	}
	if cfg.bufferSize <= 0 || cfg.bufferSize%valueSize != 0 {
		return nil, bloberrors.ErrInvalidBufferSize
	}
	cfg.bufferCount = buffersPerWorker * cfg.parallelism
	return cfg, nil
}

// WithMemoryLimit sets the ceiling on pooled buffer memory in bytes.
// Default is 256 MiB.
func WithMemoryLimit(bytes int64) Option {
	return func(c *sortConfig) {
		c.memoryLimit = bytes
	}
}

// WithParallelism sets the number of leaf sorts that can run concurrently.
// Default is runtime.NumCPU(). The pool holds two buffers per worker, each
// sized memoryLimit / (2 * parallelism).
func WithParallelism(n int) Option {
	return func(c *sortConfig) {
		c.parallelism = n
	}
}

// WithBufferSize overrides the derived per-buffer size in bytes. The size
// must be a positive multiple of 4 and bounds the largest range sorted in
// memory; smaller buffers force deeper recursion.
func WithBufferSize(bytes int64) Option {
	return func(c *sortConfig) {
		c.bufferSize = bytes
	}
}

// WithTempDir sets the parent directory for the per-invocation scratch
// directory. The directory must exist and be on a local filesystem. Default
// is the platform temp location.
func WithTempDir(dir string) Option {
	return func(c *sortConfig) {
		c.tempDir = dir
	}
}
