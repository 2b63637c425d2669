package encryption

import (
	"path/filepath"
	"strings"
)

// SealedPath replaces the last extension of path with ext.
// Paths without an extension, including dotfiles such as ".env", get ext appended.
func SealedPath(path, ext string) string {
	dir, base := filepath.Split(path)

	if old := filepath.Ext(base); old != "" && old != base {
		base = strings.TrimSuffix(base, old)
	}

	return dir + base + ext
}

// RestorePath strips ext from a sealed path and appends restoreExt.
func RestorePath(path, ext, restoreExt string) string {
	return strings.TrimSuffix(path, ext) + restoreExt
}
