//go:build !linux

package notify

// FindAlbumArtPath always returns "" off Linux.
func FindAlbumArtPath(_ string) string {
	return ""
}
