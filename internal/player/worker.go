package player

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"
)

// progress is the position/duration view the poller reads. The worker
// swaps the source in and out; Source.Position is itself atomic.
type progress struct {
	mu     sync.Mutex
	source *Source
}

func (p *progress) set(s *Source) {
	p.mu.Lock()
	p.source = s
	p.mu.Unlock()
}

func (p *progress) read() (position, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return 0, 0
	}
	return p.source.Position(), p.source.Duration()
}

// worker is the only goroutine that touches the output device and the
// loaded source.
type worker struct {
	log      *zap.Logger
	out      Output
	decoder  Decoder
	commands *queue[Command]
	events   *queue[Event]
	progress *progress

	state  State
	source *Source
	ctrl   *beep.Ctrl
}

// run processes commands until Terminate or until the command queue is
// closed, then releases the device.
func (w *worker) run() {
	defer w.shutdown()

	for {
		cmd, ok := w.commands.pop()
		if !ok {
			w.log.Debug("command queue closed, terminating")
			return
		}
		if cmd.Kind == CmdTerminate {
			w.log.Debug("terminate requested", zap.Stringer("state", w.state))
			w.release()
			cmd.respond(nil)
			return
		}

		err := w.handle(cmd)
		if err != nil {
			w.log.Debug("command failed", zap.Stringer("command", cmd.Kind), zap.Error(err))
		}
		cmd.respond(err)
	}
}

func (w *worker) handle(cmd Command) error {
	switch cmd.Kind {
	case CmdLoad:
		return w.load(cmd.Path)
	case CmdPlay:
		w.play()
	case CmdPause:
		w.pause()
	case CmdSeek:
		return w.seek(cmd.Position)
	case CmdTerminate:
		// handled by run
	}
	return nil
}

func (w *worker) load(path string) error {
	src, err := w.decoder.Decode(path)
	if err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			return err
		}
		return &DecodeError{Path: path, Err: err}
	}

	w.stopOutput()

	var stream beep.Streamer = src
	if src.Format.SampleRate != w.out.SampleRate() {
		stream = beep.Resample(4, src.Format.SampleRate, w.out.SampleRate(), src)
	}
	w.source = src
	w.ctrl = &beep.Ctrl{Streamer: stream}
	w.progress.set(src)
	w.state = StatePlaying

	w.log.Info("track loaded",
		zap.String("path", path),
		zap.Duration("duration", src.Duration()),
		zap.Int("sample_rate", int(src.Format.SampleRate)),
	)

	w.emit(Playing())
	w.out.Play(w.ctrl)
	return nil
}

func (w *worker) play() {
	if !w.state.CanResume() {
		return
	}
	w.out.Lock()
	w.ctrl.Paused = false
	w.out.Unlock()
	w.state = StatePlaying
	w.emit(Playing())
}

func (w *worker) pause() {
	if !w.state.CanPause() {
		return
	}
	w.out.Lock()
	w.ctrl.Paused = true
	w.out.Unlock()
	w.state = StatePaused
	w.emit(Paused())
}

func (w *worker) seek(position time.Duration) error {
	if w.source == nil {
		return &SeekError{Position: position, Err: ErrNoSource}
	}
	duration := w.source.Duration()
	if !w.source.Seekable() {
		return &SeekError{Position: position, Duration: duration, Err: ErrNotSeekable}
	}
	if position < 0 || position > duration {
		return &SeekError{Position: position, Duration: duration, Err: ErrOutOfRange}
	}

	w.out.Lock()
	err := w.source.seek(position)
	w.out.Unlock()
	if err != nil {
		return &SeekError{Position: position, Duration: duration, Err: err}
	}

	w.emit(Seeked(position))
	return nil
}

// stopOutput clears the device and discards the current source.
func (w *worker) stopOutput() {
	w.out.Clear()
	w.progress.set(nil)
	if w.source != nil {
		if err := w.source.Close(); err != nil {
			w.log.Debug("close source", zap.Error(err))
		}
	}
	w.source = nil
	w.ctrl = nil
	w.state = StateIdle
}

// release stops playback and closes the device.
func (w *worker) release() {
	w.stopOutput()
	if err := w.out.Close(); err != nil {
		w.log.Warn("close output device", zap.Error(err))
	}
	w.out = nil
}

// shutdown rejects whatever is still queued and makes sure the device is
// released even when the loop ended without Terminate.
func (w *worker) shutdown() {
	for _, cmd := range w.commands.drain() {
		cmd.respond(ErrChannelClosed)
	}
	if w.out != nil {
		w.release()
	}
}

func (w *worker) emit(e Event) {
	// The event queue only closes after the worker has exited.
	_ = w.events.push(e)
}
