package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/config"
	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/logger"
	"github.com/llehouerou/rwave/internal/stderr"
)

// captureStderr marks commands that open the audio device; ALSA noise is
// redirected into the log for them.
const captureStderr = "capture-stderr"

// app holds what every command shares once the root pre-run has finished.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error

	logLevel string
	dbPath   string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "rwave",
		Short:         "rwave is a music library with a remote-controlled player.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "override db_path")

	root.AddCommand(
		newServeCmd(a),
		newScanCmd(a),
		newTracksCmd(a),
		newPlaylistsCmd(a),
		newPlayCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	if cmd.Annotations[captureStderr] == "true" {
		if err := stderr.Start(); err != nil {
			fmt.Fprintln(os.Stderr, "stderr capture unavailable:", err)
		}
	}

	log, closeLog, err := logger.New(cfg.GetLogConfig(), stderr.Original())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	a.log, a.closeLog = log, closeLog

	if cmd.Annotations[captureStderr] == "true" {
		go stderr.Forward(log)
	}
	return nil
}

// shutdown runs after every command, failed ones included.
func (a *app) shutdown() {
	stderr.Stop()
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// openLibrary opens the configured library database.
func (a *app) openLibrary(ctx context.Context) (*library.Store, error) {
	path, err := a.cfg.GetDBPath()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpLibraryOpen, err))
	}
	store, err := library.Open(ctx, path, a.log)
	if err != nil {
		return nil, errors.New(errmsg.FormatWith(errmsg.OpLibraryOpen, path, err))
	}
	a.log.Debug("library opened", zap.String("path", path))
	return store, nil
}
