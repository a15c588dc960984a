package main

import (
	"errors"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/mpris"
	"github.com/llehouerou/rwave/internal/notify"
	"github.com/llehouerou/rwave/internal/playback"
	"github.com/llehouerou/rwave/internal/player"
	"github.com/llehouerou/rwave/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run the player with its HTTP, WebSocket and MPRIS controls",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{captureStderr: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			srvCfg := a.cfg.GetServerConfig()
			if addr != "" {
				srvCfg.Addr = addr
			}

			store, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := a.newPlayer()
			if err != nil {
				return err
			}
			defer p.Close()

			// Watchers finish after the service closes their subscriptions.
			var watchers sync.WaitGroup
			svc := playback.New(p, store, a.log)
			defer func() {
				_ = svc.Close()
				watchers.Wait()
			}()

			if a.cfg.MPRISEnabled() {
				adapter, err := mpris.New(svc, a.log)
				if err != nil {
					a.log.Warn("mpris unavailable", zap.Error(err))
				} else {
					defer adapter.Close()
				}
			}

			if srvCfg.Notifications {
				notifier, err := notify.New()
				if err != nil {
					a.log.Warn("notifications unavailable", zap.Error(err))
				} else {
					nowPlaying, sub := notify.NewNowPlaying(notifier, a.log), svc.Watch()
					watchers.Go(func() { nowPlaying.Run(sub) })
				}
			}

			srv := server.New(svc, store, server.Options{
				SinkBuffer: a.cfg.GetPlayerConfig().SinkBuffer,
				Logger:     a.log,
			})
			a.log.Info("rwave serving", zap.String("addr", srvCfg.Addr))
			return srv.ListenAndServe(ctx, srvCfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}

// newPlayer opens the speaker with the configured format.
func (a *app) newPlayer() (*player.Player, error) {
	pc := a.cfg.GetPlayerConfig()
	p, err := player.New(player.Options{
		PollInterval: pc.PollInterval,
		OpenOutput:   player.SpeakerOpener(beep.SampleRate(pc.SampleRate), pc.Buffer),
		Logger:       a.log,
	})
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpOpenDevice, err))
	}
	return p, nil
}
