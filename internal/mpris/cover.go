//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// coverStems lists common album art base names in priority order.
var coverStems = []string{"cover", "folder", "album", "front"}

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// FindAlbumArt looks for album art next to the track, matching names
// case-insensitively. A well-known name wins; otherwise the first image in
// the directory is used. Returns "" when there is none.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", len(coverStems)+1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		ext := filepath.Ext(name)
		if !slices.Contains(imageExts, ext) {
			continue
		}
		rank := slices.Index(coverStems, strings.TrimSuffix(name, ext))
		if rank < 0 {
			rank = len(coverStems)
		}
		if rank < bestRank {
			best, bestRank = filepath.Join(dir, e.Name()), rank
		}
	}
	return best
}
