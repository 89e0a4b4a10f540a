package sync

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Walk calls fn for every regular file under rootDir whose extension matches
// ext (case-insensitive). An unreadable subtree is logged and skipped, the
// rest of the walk continues.
func Walk(rootDir string, ext string, fn func(path string)) {
	_ = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("walk skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		fn(path)
		return nil
	})
}
