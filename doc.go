// Package blobsort implements an out-of-core, memory-bounded, parallel sort
// for flat binary files of unsigned 32-bit values.
//
// BlobSort is designed for multi-gigabyte inputs that do not fit in RAM. The
// input is split recursively into ranges small enough to sort in memory, the
// leaf ranges are sorted concurrently through a bounded buffer pool, and the
// sorted runs are recombined with streaming two-way merges on disk. Total
// buffer memory never exceeds the configured limit.
//
// # Basic Usage
//
// Sorting a blob:
//
//	err := blobsort.SortBlob32(ctx, "values.blob", "values.sorted")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Bounding memory and parallelism explicitly:
//
//	err := blobsort.SortBlob32(ctx, "values.blob", "values.sorted",
//	    blobsort.WithMemoryLimit(64<<20),
//	    blobsort.WithParallelism(4))
//
// Verifying an output:
//
//	if err := blobsort.VerifySorted("values.sorted"); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Format
//
// A blob is a contiguous sequence of 4-byte little-endian unsigned integers
// with no header, footer, or metadata. The file length must be a multiple
// of 4.
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: sort.go (SortBlob32), verify.go (VerifySorted, Checksum)
//   - Configuration: sort_options.go (Option, With* functions)
//   - Buffer pool: pool.go (bounded blocking pool, auto-releasing leases)
//   - Scratch files: scratch.go (per-invocation run file store)
//   - Leaf sorting: leaf.go (in-memory sort of one buffer-sized range)
//   - Merging: merge.go (streaming two-way merge of sorted runs)
//   - Platform: fallocate_*.go, fadvise_*.go (OS-specific I/O hints)
package blobsort
