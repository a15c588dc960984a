package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/player"
	"github.com/llehouerou/rwave/internal/tags"
)

func newPlayCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "play <path>",
		Short:       "Play a file and print player events until it ends or is interrupted",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{captureStderr: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			p, err := a.newPlayer()
			if err != nil {
				return err
			}
			defer p.Close()

			sink := player.NewChanSink(a.cfg.GetPlayerConfig().SinkBuffer)
			p.Subscribe(sink)

			if err := p.Load(ctx, path); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaybackLoad, path, err))
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				printHeader(out, path, a.log)
			}
			for {
				select {
				case <-ctx.Done():
					if !asJSON {
						fmt.Fprintln(out)
					}
					return nil
				case ev, ok := <-sink.Events():
					if !ok {
						a.log.Warn("player dropped the event subscription, output fell behind")
						return nil
					}
					if err := printEvent(out, ev, asJSON); err != nil {
						return err
					}
					if finished(ev) {
						return nil
					}
				}
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print events in their wire form, one per line")
	return cmd
}

func printHeader(out io.Writer, path string, log *zap.Logger) {
	tag, err := tags.Read(path)
	if err != nil {
		log.Debug("read tags", zap.String("path", path), zap.Error(err))
		fmt.Fprintln(out, filepath.Base(path))
		return
	}
	fmt.Fprintf(out, "%s - %s (%s)\n", tag.Artist, tag.Title, tag.Album)
}

func printEvent(out io.Writer, ev player.Event, asJSON bool) error {
	if asJSON {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	switch ev.Kind {
	case player.EventPositionUpdate:
		fmt.Fprintf(out, "\r%s / %s ", formatDuration(ev.Position), formatDuration(ev.Duration))
	case player.EventSeeked:
		fmt.Fprintf(out, "\nseeked to %s\n", formatDuration(ev.Position))
	case player.EventPlaying, player.EventPaused:
		fmt.Fprintf(out, "\n%s\n", ev.Kind)
	}
	return nil
}

// finished reports the end of a track of known length. Live streams never
// finish.
func finished(ev player.Event) bool {
	return ev.Kind == player.EventPositionUpdate && ev.Duration > 0 && ev.Position >= ev.Duration
}
