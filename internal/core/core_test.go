package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")

	exists, err := FileExists(path)
	if err != nil || exists {
		t.Fatalf("expected missing file, got %v %v", exists, err)
	}

	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, err = FileExists(path)
	if err != nil || !exists {
		t.Fatalf("expected file to exist, got %v %v", exists, err)
	}
}

func TestOptional(t *testing.T) {
	v := 3
	if got := Optional(&v, 6); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := Optional[int](nil, 6); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestAddress(t *testing.T) {
	if got := Address("", 8080); got != ":8080" {
		t.Fatalf("unexpected address %q", got)
	}
}
