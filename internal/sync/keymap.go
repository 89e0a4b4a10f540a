package sync

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RemoteKey maps a local file path to its object key: the path relative to
// rootDir with forward slashes. Paths outside rootDir are a caller bug and
// return an error instead of a silently wrong key.
func RemoteKey(path string, rootDir string) (string, error) {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return "", fmt.Errorf("key for %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key for %q: path is outside root %q", path, rootDir)
	}
	return filepath.ToSlash(rel), nil
}
