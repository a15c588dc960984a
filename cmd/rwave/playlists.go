package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/library"
)

func newPlaylistsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List and edit playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			playlists, err := store.ListPlaylists(ctx)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistList, err))
			}
			rows := lo.Map(playlists, func(p library.Playlist, _ int) []string {
				return []string{strconv.FormatInt(p.ID, 10), p.Name, strconv.Itoa(p.TrackCount)}
			})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Tracks"}, rows))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a playlist",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, store *library.Store, args []string) error {
				id, err := store.CreatePlaylist(cmd.Context(), args[0])
				if err != nil {
					return errors.New(errmsg.FormatWith(errmsg.OpPlaylistCreate, args[0], err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %d\n", id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a playlist",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStore(func(cmd *cobra.Command, store *library.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := store.RenamePlaylist(cmd.Context(), id, args[1]); err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaylistRename, err))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a playlist",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, store *library.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := store.DeletePlaylist(cmd.Context(), id); err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaylistDelete, err))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add <playlist-id> <track-id>",
			Short: "Append a track to a playlist",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStore(func(cmd *cobra.Command, store *library.Store, args []string) error {
				pid, tid, err := parseIDPair(args)
				if err != nil {
					return err
				}
				if err := store.AddTrackToPlaylist(cmd.Context(), pid, tid); err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaylistAddTrack, err))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <playlist-id> <track-id>",
			Short: "Remove a track from a playlist",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStore(func(cmd *cobra.Command, store *library.Store, args []string) error {
				pid, tid, err := parseIDPair(args)
				if err != nil {
					return err
				}
				if err := store.RemoveTrackFromPlaylist(cmd.Context(), pid, tid); err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaylistRemove, err))
				}
				return nil
			}),
		},
	)
	return cmd
}

// withStore opens the library around fn.
func (a *app) withStore(fn func(*cobra.Command, *library.Store, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := a.openLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(cmd, store, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDPair(args []string) (first, second int64, err error) {
	if first, err = parseID(args[0]); err != nil {
		return 0, 0, err
	}
	if second, err = parseID(args[1]); err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
