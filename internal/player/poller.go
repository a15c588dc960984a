package player

import "time"

const DefaultPollInterval = 100 * time.Millisecond

// poll emits a PositionUpdate every interval until stop or workerDone is
// closed. Idle ticks report zero position and duration.
func poll(interval time.Duration, prog *progress, events *queue[Event], stop, workerDone <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-workerDone:
			return
		case <-ticker.C:
			pos, dur := prog.read()
			if events.push(PositionUpdate(pos, dur)) != nil {
				return
			}
		}
	}
}
