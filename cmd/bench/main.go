// Bench is a benchmarking tool for measuring blobsort throughput and memory
// usage on generated inputs, with end-to-end output verification.
//
// Usage:
//
//	go run ./cmd/bench -values 100000000 -mem 268435456 -workers 8
//
// Flags:
//
//	-values   Number of 32-bit values to generate and sort (default: 10,000,000)
//	-mem      Buffer memory limit in bytes (default: 256 MiB)
//	-workers  Parallelism; 0 means all CPUs (default: 0)
//	-bufsize  Explicit buffer size in bytes; 0 derives from -mem (default: 0)
//	-seed     Seed for deterministic input generation (default: 1)
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/blobsort"
)

const valueSize = 4

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024 // Convert KB to bytes on Linux
	}
	return maxRSS
}

// generateInput writes n deterministic pseudo-random values to path. Each
// value is the low 32 bits of the xxh3 hash of its index, so the same seed
// always reproduces the same blob.
func generateInput(path string, n int64, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(f, 1<<20)

	var idx [8]byte
	var out [valueSize]byte
	for i := int64(0); i < n; i++ {
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		binary.LittleEndian.PutUint32(out[:], uint32(xxh3.HashSeed(idx[:], seed)))
		if _, err := w.Write(out[:]); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// multisetSignature folds a per-value murmur3 hash with addition, so the
// result is independent of value order. Equal signatures before and after
// sorting mean the sort preserved the multiset of values.
func multisetSignature(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReaderSize(f, 1<<20)
	var sig uint64
	var b [valueSize]byte
	for {
		_, err := io.ReadFull(r, b[:])
		if err == io.EOF {
			return sig, nil
		}
		if err != nil {
			return 0, err
		}
		sig += murmur3.Sum64(b[:])
	}
}

func main() {
	valuesFlag := flag.Int64("values", 10_000_000, "number of 32-bit values")
	memFlag := flag.Int64("mem", 256<<20, "buffer memory limit in bytes")
	workersFlag := flag.Int("workers", 0, "parallelism (0 = all CPUs)")
	bufsizeFlag := flag.Int64("bufsize", 0, "explicit buffer size in bytes (0 = derive from -mem)")
	seedFlag := flag.Uint64("seed", 1, "input generation seed")
	flag.Parse()

	numValues := *valuesFlag

	tmpDir, err := os.MkdirTemp("", "blobsort-bench-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	inputPath := filepath.Join(tmpDir, "input.blob")
	outputPath := filepath.Join(tmpDir, "output.blob")

	fmt.Println("Generating input...")
	genStart := time.Now()
	if err := generateInput(inputPath, numValues, *seedFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Generate failed: %v\n", err)
		os.Exit(1)
	}
	genDuration := time.Since(genStart)

	inputSig, err := multisetSignature(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Input signature failed: %v\n", err)
		os.Exit(1)
	}

	opts := []blobsort.Option{
		blobsort.WithMemoryLimit(*memFlag),
		blobsort.WithTempDir(tmpDir),
	}
	if *workersFlag > 0 {
		opts = append(opts, blobsort.WithParallelism(*workersFlag))
	}
	if *bufsizeFlag > 0 {
		opts = append(opts, blobsort.WithBufferSize(*bufsizeFlag))
	}

	baselineRSS := getMaxRSS()

	fmt.Println("Sorting...")
	sortStart := time.Now()
	if err := blobsort.SortBlob32(context.Background(), inputPath, outputPath, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "Sort failed: %v\n", err)
		os.Exit(1)
	}
	sortDuration := time.Since(sortStart)
	peakRSS := getMaxRSS() - baselineRSS

	fmt.Println("Verifying...")
	verifyStart := time.Now()
	if err := blobsort.VerifySorted(outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Output is not sorted: %v\n", err)
		os.Exit(1)
	}
	outputSig, err := multisetSignature(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output signature failed: %v\n", err)
		os.Exit(1)
	}
	if outputSig != inputSig {
		fmt.Fprintf(os.Stderr, "Multiset mismatch: input %016x, output %016x\n", inputSig, outputSig)
		os.Exit(1)
	}
	verifyDuration := time.Since(verifyStart)

	totalBytes := numValues * valueSize
	fmt.Printf("\n")
	fmt.Printf("Values:          %d (%.1f MB)\n", numValues, float64(totalBytes)/1_000_000)
	fmt.Printf("Generate time:   %.2f sec\n", genDuration.Seconds())
	fmt.Printf("Sort time:       %.2f sec\n", sortDuration.Seconds())
	fmt.Printf("Sort throughput: %.2f MB/sec\n", float64(totalBytes)/sortDuration.Seconds()/1_000_000)
	fmt.Printf("Verify time:     %.2f sec\n", verifyDuration.Seconds())
	fmt.Printf("Peak RSS delta:  %.1f MB\n", float64(peakRSS)/1_000_000)
}
