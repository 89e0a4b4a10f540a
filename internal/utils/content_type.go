package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// DetectContentType infers the content type stored alongside a mirrored
// object from its file name, falling back to a generic binary type.
func DetectContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".pdf"):
		// hardcoded so mirrored documents render inline even when the
		// host mime table is missing an entry
		return "application/pdf"
	case isSidecarText(path):
		return "text/plain; charset=utf-8"
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(path)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

// isSidecarText matches notes and manifests that travel next to mirrored
// documents.
func isSidecarText(path string) bool {
	return strings.HasSuffix(path, ".md") ||
		strings.HasSuffix(path, ".txt")
}
