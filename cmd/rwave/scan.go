package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/importer"
)

func newScanCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "scan [dirs...]",
		Short: "Import audio files into the library",
		Long:  "Walks the given folders, or library_sources when none are given, and adds or updates their audio files in the library.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			roots := args
			if len(roots) == 0 {
				roots = a.cfg.LibrarySources
			}
			if len(roots) == 0 {
				return errors.New("no folders given and library_sources is empty")
			}

			start := time.Now()
			files, err := importer.Discover(afero.NewOsFs(), roots)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
			}
			a.log.Info("discovered files", zap.Int("count", len(files)), zap.Strings("roots", roots))

			store, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			im := importer.New(store, a.log)
			if !quiet {
				out := cmd.ErrOrStderr()
				im.Progress = func(done, total int) {
					if done == total || done%100 == 0 {
						fmt.Fprintf(out, "\r%d/%d", done, total)
					}
				}
			}
			stats, err := im.Import(ctx, files)
			if !quiet && len(files) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
			}

			out := cmd.OutOrStdout()
			for _, f := range stats.Failures {
				fmt.Fprintln(out, errmsg.FormatWith(errmsg.OpImportFile, f.Path, f.Err))
			}
			fmt.Fprintf(out, "%s files: %d added, %d updated, %d unchanged, %d failed (%s imported in %s)\n",
				humanize.Comma(int64(len(files))),
				stats.Added, stats.Updated, stats.Skipped, stats.Failed,
				humanize.Bytes(uint64(max(stats.Bytes, 0))), //nolint:gosec // clamped above
				time.Since(start).Round(time.Millisecond),
			)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")
	return cmd
}
