package core

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// CSVSuffix is the file name suffix selected by the walker.
const CSVSuffix = ".csv"

// FileEntry is a discovered input file.
type FileEntry struct {
	Path string
	Name string
}

// Scan lazily yields every *.csv file below root, descending into all
// subdirectories in lexical order. Symbolic links to directories are not
// followed, except root itself. Yielded paths are rooted at root as given.
// Iteration stops after the first error.
func Scan(root string) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		walkRoot, err := resolveRoot(root)
		if err != nil {
			yield(FileEntry{}, err)
			return
		}

		_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield(FileEntry{}, fmt.Errorf("walk %s: %w", path, err))
				return fs.SkipAll
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), CSVSuffix) {
				return nil
			}
			if walkRoot != root {
				rel, err := filepath.Rel(walkRoot, path)
				if err != nil {
					yield(FileEntry{}, fmt.Errorf("walk %s: %w", path, err))
					return fs.SkipAll
				}
				path = filepath.Join(root, rel)
			}
			if !yield(FileEntry{Path: path, Name: d.Name()}, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Discover collects the files yielded by Scan.
func Discover(root string) ([]FileEntry, error) {
	var files []FileEntry
	for f, err := range Scan(root) {
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// resolveRoot checks that root is a directory and returns the path to walk.
// A root that is itself a symlink is resolved so WalkDir descends into it.
func resolveRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, root)
		}
		return "", fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	linfo, err := os.Lstat(root)
	if err != nil {
		return "", fmt.Errorf("lstat %s: %w", root, err)
	}
	if linfo.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", root, err)
		}
		return resolved, nil
	}
	return root, nil
}
