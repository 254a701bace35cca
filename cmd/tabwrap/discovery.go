package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// discoverInputs finds the .tex files to compile. A file path yields a
// single-entry list; a directory is listed (recursively when asked).
// Files already carrying the output suffix are filtered out so a
// previous run's artifacts are never re-processed. Order follows the
// directory walk (lexical), which fixes the batch report and combine
// order.
func discoverInputs(inputPath string, recursive bool, suffix string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}

	if !info.IsDir() {
		if err := validateTexExtension(inputPath); err != nil {
			return nil, err
		}
		return []string{inputPath}, nil
	}

	if suffix == "" {
		suffix = "_compiled"
	}

	var files []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if !recursive && path != inputPath {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".tex" {
			return nil
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tex")
		if strings.HasSuffix(stem, suffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		where := "in"
		if recursive {
			where = "recursively in"
		}
		return nil, fmt.Errorf("%w %s %s", ErrNoInput, where, inputPath)
	}
	return files, nil
}

// validateTexExtension checks that the file has a .tex extension.
func validateTexExtension(path string) error {
	if ext := filepath.Ext(path); ext != ".tex" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
