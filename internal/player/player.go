package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"
)

const (
	DefaultSampleRate beep.SampleRate = 44100
	DefaultBuffer                     = 100 * time.Millisecond
)

// Options configures a Player. Zero values select the defaults.
type Options struct {
	// PollInterval is the period of PositionUpdate events.
	PollInterval time.Duration
	// OpenOutput opens the audio device. Defaults to the system speaker at
	// DefaultSampleRate.
	OpenOutput OutputOpener
	// Decoder turns paths into sources. Defaults to FileDecoder.
	Decoder Decoder
	// Registry lets several components share subscriptions. A fresh one
	// is created when nil.
	Registry *Registry
	Logger   *zap.Logger
}

// Player is the handle on the playback actor. All methods are safe for
// concurrent use. The audio device, decoder and loaded source belong to
// the worker goroutine and are never reachable from here.
type Player struct {
	log      *zap.Logger
	commands *queue[Command]
	events   *queue[Event]
	registry *Registry

	workerDone    chan struct{}
	pollStop      chan struct{}
	pollDone      chan struct{}
	broadcastDone chan struct{}

	closeOnce sync.Once
}

// New opens the output device and starts the worker, poller and
// broadcaster. If the device cannot be opened it returns a *DeviceError
// and nothing is left running.
func New(opts Options) (*Player, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.OpenOutput == nil {
		opts.OpenOutput = SpeakerOpener(DefaultSampleRate, DefaultBuffer)
	}
	if opts.Decoder == nil {
		opts.Decoder = FileDecoder{}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger.Named("player")

	p := &Player{
		log:           log,
		commands:      newQueue[Command](),
		events:        newQueue[Event](),
		registry:      opts.Registry,
		workerDone:    make(chan struct{}),
		pollStop:      make(chan struct{}),
		pollDone:      make(chan struct{}),
		broadcastDone: make(chan struct{}),
	}

	prog := &progress{}
	w := &worker{
		log:      log,
		decoder:  opts.Decoder,
		commands: p.commands,
		events:   p.events,
		progress: prog,
	}

	ready := make(chan error, 1)
	go func() {
		out, err := opts.OpenOutput()
		if err != nil {
			ready <- err
			return
		}
		w.out = out
		ready <- nil

		defer close(p.workerDone)
		w.run()
	}()

	if err := <-ready; err != nil {
		var devErr *DeviceError
		if !errors.As(err, &devErr) {
			err = &DeviceError{Err: err}
		}
		log.Error("open output device", zap.Error(err))
		return nil, err
	}

	go func() {
		defer close(p.pollDone)
		poll(opts.PollInterval, prog, p.events, p.pollStop, p.workerDone)
	}()
	go func() {
		defer close(p.broadcastDone)
		broadcast(log, p.events, p.registry)
	}()

	log.Debug("player started", zap.Duration("poll_interval", opts.PollInterval))
	return p, nil
}

// Submit enqueues cmd without blocking and returns the channel its result
// will arrive on. It fails with ErrChannelClosed once the worker has exited.
func (p *Player) Submit(cmd Command) (<-chan error, error) {
	cmd.reply = make(chan error, 1)
	if err := p.commands.push(cmd); err != nil {
		return nil, err
	}
	return cmd.reply, nil
}

// do submits cmd and waits for its result. A cancelled ctx stops the wait
// but not the command.
func (p *Player) do(ctx context.Context, cmd Command) error {
	reply, err := p.Submit(cmd)
	if err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load decodes path, replaces the current source and starts playing it.
func (p *Player) Load(ctx context.Context, path string) error {
	return p.do(ctx, LoadCommand(path))
}

// Play resumes output of the loaded source.
func (p *Player) Play(ctx context.Context) error {
	return p.do(ctx, PlayCommand())
}

// Pause suspends output.
func (p *Player) Pause(ctx context.Context) error {
	return p.do(ctx, PauseCommand())
}

// Seek moves the playback position of the loaded source.
func (p *Player) Seek(ctx context.Context, position time.Duration) error {
	return p.do(ctx, SeekCommand(position))
}

// Subscribe registers sink for all subsequent events.
func (p *Player) Subscribe(sink Sink) SubscriberID {
	return p.registry.Subscribe(sink)
}

// Unsubscribe removes a subscription; see Registry.Unsubscribe.
func (p *Player) Unsubscribe(id SubscriberID) bool {
	return p.registry.Unsubscribe(id)
}

// Registry returns the subscription registry shared with the broadcaster.
func (p *Player) Registry() *Registry { return p.registry }

// Done is closed when the worker has exited and released the device.
func (p *Player) Done() <-chan struct{} { return p.workerDone }

// Close terminates the worker, waits for the device to be released, then
// stops the poller and flushes pending events to subscribers. Calling it
// more than once is harmless.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		// Fails only if a Terminate was already submitted and processed.
		_ = p.commands.push(TerminateCommand())
		<-p.workerDone

		close(p.pollStop)
		<-p.pollDone

		p.events.close()
		<-p.broadcastDone
		p.log.Debug("player closed")
	})
	return nil
}
