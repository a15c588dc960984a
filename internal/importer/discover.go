package importer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/llehouerou/rwave/internal/tags"
)

// File is a music file found on disk.
type File struct {
	Path  string
	Size  int64
	Mtime int64 // unix seconds
}

// Discover walks roots on fsys and returns every supported music file,
// sorted by path. Unreadable directories below a root are skipped; a root
// that cannot be read at all is an error.
func Discover(fsys afero.Fs, roots []string) ([]File, error) {
	var files []File
	for _, root := range roots {
		root = filepath.Clean(root)
		if _, err := fsys.Stat(root); err != nil {
			return nil, fmt.Errorf("library source %s: %w", root, err)
		}

		_ = afero.Walk(fsys, root, func(path string, info fs.FileInfo, walkErr error) error {
			// Skip errors below the root and keep scanning the rest.
			if walkErr != nil {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !tags.IsMusicFile(path) {
				return nil
			}
			files = append(files, File{
				Path:  path,
				Size:  info.Size(),
				Mtime: info.ModTime().Unix(),
			})
			return nil
		})
	}

	// Overlapping roots yield the same file twice.
	files = lo.UniqBy(files, func(f File) string { return f.Path })
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}
