//go:build !windows

// Package stderr captures stderr output from C libraries (ALSA) that write
// directly to file descriptor 2, bypassing Go's os.Stderr, and forwards it
// to the logger.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// Messages receives stderr lines captured from C libraries.
var Messages = make(chan string, 100)

var (
	origStderr int
	origFile   *os.File
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
)

// Start begins capturing stderr output.
// Must be called early, before the audio device is opened.
// Returns an error if capture cannot be set up, but the program can continue
// without stderr capture (errors will just go to the original stderr).
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	err = syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd()))
	if err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	origFile = os.NewFile(uintptr(origStderr), "stderr")
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				select {
				case Messages <- line:
				default:
					// Channel full, drop message to avoid blocking
				}
			}
		}
	}()

	return nil
}

// Original returns a writer on the stderr that was in place before Start.
// Console logging must go there, or it would loop back through the pipe.
func Original() io.Writer {
	if started && origFile != nil {
		return origFile
	}
	return os.Stderr
}

// Forward logs captured lines at warn level until Stop is called.
func Forward(log *zap.Logger) {
	log = log.Named("stderr")
	for line := range Messages {
		log.Warn("native library output", zap.String("line", line))
	}
}

// Stop restores the original stderr. Should be called on program exit.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = origFile.Close()

	pipeWrite.Close()
	pipeRead.Close()

	close(Messages)
	started = false
}
