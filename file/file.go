package file

import (
	"path/filepath"
	"strings"
)

// CreateEntryNames names library entries by their path relative to root,
// falling back to the base name when a path isn't under root.
func CreateEntryNames(root string, paths []string) []string {
	res := make([]string, len(paths))
	for i, v := range paths {
		rel, err := filepath.Rel(root, v)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(v)
		}
		res[i] = filepath.ToSlash(rel)
	}
	return res
}
