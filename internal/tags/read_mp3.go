package tags

import (
	"github.com/bogem/id3v2/v2"
)

// readMP3WithID3v2Fallback reads MP3 metadata using only the id3v2 library.
// This is used as a fallback when dhowden/tag fails (e.g., on some UTF-16 encoded tags).
func readMP3WithID3v2Fallback(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	track, totalTracks := parseTrackNumber(getID3TextFrame(id3tag, "TRCK"))
	disc, _ := parseTrackNumber(getID3TextFrame(id3tag, "TPOS"))

	t := &Tag{
		Path:        path,
		Title:       id3tag.Title(),
		Artist:      id3tag.Artist(),
		AlbumArtist: getID3TextFrame(id3tag, "TPE2"),
		Album:       id3tag.Album(),
		Genre:       id3tag.Genre(),
		Date:        id3Date(id3tag),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
	}
	t.fillDefaults()
	return t, nil
}

// readMP3Date reads the recording date from ID3v2 frames dhowden/tag
// does not map (ID3v2.4 TDRC, or ID3v2.3 TYER+TDAT).
func readMP3Date(path string) string {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer id3tag.Close()
	return id3Date(id3tag)
}

func id3Date(id3tag *id3v2.Tag) string {
	if date := getID3TextFrame(id3tag, "TDRC"); date != "" {
		return date
	}
	year := getID3TextFrame(id3tag, "TYER")
	if year == "" {
		return ""
	}
	// TDAT is DDMM
	if tdat := getID3TextFrame(id3tag, "TDAT"); len(tdat) == 4 {
		return year + "-" + tdat[2:4] + "-" + tdat[0:2]
	}
	return year
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
