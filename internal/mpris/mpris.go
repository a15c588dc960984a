//go:build linux

// Package mpris exposes the playback service on the session bus as an
// MPRIS media player.
package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/playback"
)

// Adapter connects the playback service to MPRIS over D-Bus.
type Adapter struct {
	service playback.Service
	server  *server.Server
	events  *events.EventHandler
	sub     *playback.Subscription
	log     *zap.Logger
	done    chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{
		service: service,
		log:     log.Named("mpris"),
		done:    make(chan struct{}),
	}

	a.server = server.NewServer("rwave", &rootAdapter{}, &playerAdapter{service: service})
	a.events = events.NewEventHandler(a.server)
	a.sub = service.Watch()

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris server stopped", zap.Error(err))
		}
	}()
	go a.forward()

	a.log.Debug("mpris adapter started")
	return a, nil
}

// forward turns service events into MPRIS property change signals.
func (a *Adapter) forward() {
	for {
		select {
		case <-a.done:
			return
		case <-a.sub.Done:
			return
		case <-a.sub.StateChanged:
			a.events.Player.OnPlayPause()
		case <-a.sub.TrackChanged:
			a.events.Player.OnTitle()
		case <-a.sub.PositionChanged:
			// Clients poll Position; nothing to signal.
		}
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	a.service.Unwatch(a.sub)
	return a.server.Stop()
}
