// Blobsort sorts a flat binary file of 4-byte little-endian unsigned
// integers into a new file.
//
// Usage:
//
//	blobsort <in_file> <out_file>
//
// On success, prints "Finished" and exits 0. On a usage error, prints the
// usage line to stderr and exits 2. On an operational failure, prints the
// error to stderr and exits 1.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tamirms/blobsort"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: blobsort <in_file> <out_file>")
		os.Exit(2)
	}

	if err := blobsort.SortBlob32(context.Background(), os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Finished")
}
