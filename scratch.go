package blobsort

import (
	"fmt"
	"os"
	"path/filepath"
)

// scratchDir names and manages the on-disk run files for one sort
// invocation. All runs live inside a process-private directory created under
// the configured parent; the directory and its contents are removed
// best-effort at teardown regardless of outcome.
type scratchDir struct {
	path string
}

// newScratchDir creates a uniquely named scratch directory under parent,
// or under the platform temp location if parent is empty.
func newScratchDir(parent string) (*scratchDir, error) {
	dir, err := os.MkdirTemp(parent, "blobsort-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return &scratchDir{path: dir}, nil
}

// runPath derives the run file path for the task covering
// [offset, offset+size). No two live tasks share both offset and size, so
// run paths never collide within one invocation. The naming scheme is an
// internal detail, not a stable format.
func (s *scratchDir) runPath(offset, size int64) string {
	return filepath.Join(s.path, fmt.Sprintf("%016x-%016x", offset, size))
}

// removeRun deletes a consumed run file. Best-effort: the merge output is
// already durable, so a leftover run only wastes scratch space until
// removeAll.
func (s *scratchDir) removeRun(path string) {
	_ = os.Remove(path)
}

// removeAll tears down the scratch directory and everything in it.
// Best-effort: teardown must never mask the error that triggered it.
func (s *scratchDir) removeAll() {
	_ = os.RemoveAll(s.path)
}
