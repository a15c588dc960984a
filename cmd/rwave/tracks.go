package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/search"
)

func newTracksCmd(a *app) *cobra.Command {
	var (
		playlistID int64
		query      string
	)
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List library tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var tracks []library.Track
			if playlistID > 0 {
				tracks, err = store.PlaylistTracks(ctx, playlistID)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaylistTracks, err))
				}
			} else {
				tracks, err = store.ListTracks(ctx)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpTrackList, err))
				}
			}

			if query != "" {
				tracks = search.Filter(tracks, library.Track.SearchText, query)
			}

			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No tracks.")
				return nil
			}
			fmt.Fprintln(out, renderTracks(tracks))
			total := lo.SumBy(tracks, func(t library.Track) time.Duration { return t.Duration })
			fmt.Fprintf(out, "%d tracks, %s\n", len(tracks), formatDuration(total))
			return nil
		},
	}
	cmd.Flags().Int64Var(&playlistID, "playlist", 0, "list the tracks of this playlist, in order")
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show tracks matching these words, best match first")
	return cmd
}

func renderTracks(tracks []library.Track) string {
	rows := lo.Map(tracks, func(t library.Track, _ int) []string {
		number := ""
		if t.TrackNumber > 0 {
			number = strconv.Itoa(t.TrackNumber)
		}
		return []string{
			strconv.FormatInt(t.ID, 10),
			t.Artist,
			t.Album,
			number,
			t.Name,
			formatDuration(t.Duration),
		}
	})
	return renderTable([]string{"ID", "Artist", "Album", "#", "Title", "Length"}, rows)
}
