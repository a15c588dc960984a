//go:build linux

package notify

import "github.com/llehouerou/rwave/internal/mpris"

// FindAlbumArtPath returns the cover image next to trackPath, or "".
func FindAlbumArtPath(trackPath string) string {
	return mpris.FindAlbumArt(trackPath)
}
