package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	t.Run("writes content with extension", func(t *testing.T) {
		t.Parallel()

		path, cleanup, err := WriteTempFile("hello", "tex")
		if err != nil {
			t.Fatalf("WriteTempFile() error = %v", err)
		}
		defer cleanup()

		if !strings.HasSuffix(path, ".tex") {
			t.Errorf("path = %q, want .tex suffix", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading temp file: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("content = %q, want hello", data)
		}
	})

	t.Run("cleanup removes the file", func(t *testing.T) {
		t.Parallel()

		path, cleanup, err := WriteTempFile("x", "tex")
		if err != nil {
			t.Fatalf("WriteTempFile() error = %v", err)
		}
		cleanup()

		if FileExists(path) {
			t.Error("file still present after cleanup")
		}
	})

	t.Run("invalid extension rejected", func(t *testing.T) {
		t.Parallel()

		if _, _, err := WriteTempFile("x", "a/b"); !errors.Is(err, ErrExtensionPathTraversal) {
			t.Errorf("error = %v, want %v", err, ErrExtensionPathTraversal)
		}
		if _, _, err := WriteTempFile("x", ""); !errors.Is(err, ErrExtensionEmpty) {
			t.Errorf("error = %v, want %v", err, ErrExtensionEmpty)
		}
	})
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("existing file reported missing")
	}
	if FileExists(filepath.Join(dir, "absent")) {
		t.Error("missing file reported present")
	}
	if FileExists(dir) {
		t.Error("directory reported as file")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"config", false},
		{"dir/config", true},
		{`dir\config`, true},
		{"/abs/path", true},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.value); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRemoveAllQuiet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Mixing existing and missing paths must not panic or fail.
	RemoveAllQuiet(present, filepath.Join(dir, "absent"))

	if FileExists(present) {
		t.Error("existing file not removed")
	}
}
