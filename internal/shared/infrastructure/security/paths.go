// Package security validates filesystem paths taken from configuration.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a path resolves outside its base directory.
var ErrPathEscapes = errors.New("path escapes base directory")

// shellChars never appear in paths Ordo reads or executes from.
const shellChars = ";&|$`(){}<>!\n\r"

// CleanPath returns path as an absolute, symlink-resolved path. Paths that
// do not exist yet are returned cleaned but unresolved.
func CleanPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}
	if i := strings.IndexAny(path, shellChars); i >= 0 {
		return "", fmt.Errorf("path contains forbidden character %q: %s", path[i], path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// PathInDir cleans path and checks that it stays inside baseDir.
func PathInDir(path, baseDir string) (string, error) {
	if baseDir == "" {
		return "", errors.New("base directory cannot be empty")
	}
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	base, err := CleanPath(baseDir)
	if err != nil {
		return "", err
	}

	if clean != base && !strings.HasPrefix(clean, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not within %s", ErrPathEscapes, path, baseDir)
	}
	return clean, nil
}
