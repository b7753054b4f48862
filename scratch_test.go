package blobsort

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScratchDirUnique(t *testing.T) {
	parent := t.TempDir()

	a, err := newScratchDir(parent)
	if err != nil {
		t.Fatalf("newScratchDir: %v", err)
	}
	b, err := newScratchDir(parent)
	if err != nil {
		t.Fatalf("newScratchDir: %v", err)
	}
	defer a.removeAll()
	defer b.removeAll()

	if a.path == b.path {
		t.Errorf("two scratch directories share path %q", a.path)
	}
	for _, s := range []*scratchDir{a, b} {
		if filepath.Dir(s.path) != parent {
			t.Errorf("scratch %q not under parent %q", s.path, parent)
		}
	}
}

func TestScratchDirMissingParent(t *testing.T) {
	_, err := newScratchDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestRunPathEncoding(t *testing.T) {
	parent := t.TempDir()
	s, err := newScratchDir(parent)
	if err != nil {
		t.Fatalf("newScratchDir: %v", err)
	}
	defer s.removeAll()

	p := s.runPath(0x1f4, 0x80)
	if filepath.Dir(p) != s.path {
		t.Errorf("run path %q outside scratch directory", p)
	}
	if base := filepath.Base(p); base != "00000000000001f4-0000000000000080" {
		t.Errorf("unexpected run file name %q", base)
	}

	// Tasks from one invocation differ in offset or size; either must
	// change the name.
	seen := map[string]bool{}
	for _, task := range []struct{ offset, size int64 }{
		{0, 8}, {8, 8}, {0, 16}, {8, 16},
	} {
		name := s.runPath(task.offset, task.size)
		if seen[name] {
			t.Errorf("run path collision at %q", name)
		}
		seen[name] = true
	}
}

func TestScratchRemoveAll(t *testing.T) {
	parent := t.TempDir()
	s, err := newScratchDir(parent)
	if err != nil {
		t.Fatalf("newScratchDir: %v", err)
	}

	run := s.runPath(0, 4)
	if err := os.WriteFile(run, []byte{1, 0, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}

	s.removeAll()
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Errorf("scratch directory still present, stat err = %v", err)
	}

	// Best-effort contract: removing twice must not panic or error out.
	s.removeAll()
	s.removeRun(run)
}

func TestScratchPrefix(t *testing.T) {
	s, err := newScratchDir(t.TempDir())
	if err != nil {
		t.Fatalf("newScratchDir: %v", err)
	}
	defer s.removeAll()

	if base := filepath.Base(s.path); !strings.HasPrefix(base, "blobsort-") {
		t.Errorf("scratch directory %q missing blobsort- prefix", base)
	}
}
