package player

import "time"

// CommandKind identifies a playback command.
type CommandKind int

const (
	CmdLoad CommandKind = iota
	CmdPlay
	CmdPause
	CmdSeek
	CmdTerminate
)

func (k CommandKind) String() string {
	switch k {
	case CmdLoad:
		return "Load"
	case CmdPlay:
		return "Play"
	case CmdPause:
		return "Pause"
	case CmdSeek:
		return "Seek"
	case CmdTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// Command is a single request for the playback worker. Build one with the
// constructors below and hand it to Player.Submit.
type Command struct {
	Kind     CommandKind
	Path     string        // Load only
	Position time.Duration // Seek only

	reply chan error
}

func LoadCommand(path string) Command { return Command{Kind: CmdLoad, Path: path} }

func PlayCommand() Command { return Command{Kind: CmdPlay} }

func PauseCommand() Command { return Command{Kind: CmdPause} }

func SeekCommand(position time.Duration) Command {
	return Command{Kind: CmdSeek, Position: position}
}

func TerminateCommand() Command { return Command{Kind: CmdTerminate} }

// respond delivers the result to the issuing caller. The reply channel is
// buffered so the worker never waits on a caller that stopped listening.
func (c Command) respond(err error) {
	if c.reply == nil {
		return
	}
	c.reply <- err
}
