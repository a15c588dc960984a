package player

import "go.uber.org/zap"

// broadcast delivers every event from the inbox to the current
// subscribers. It returns once the inbox is closed and drained.
func broadcast(log *zap.Logger, inbox *queue[Event], registry *Registry) {
	for {
		ev, ok := inbox.pop()
		if !ok {
			return
		}
		deliver(log, ev, registry)
	}
}

func deliver(log *zap.Logger, ev Event, registry *Registry) {
	for _, sub := range registry.snapshot() {
		if err := sub.sink.Send(ev); err != nil {
			registry.Unsubscribe(sub.id)
			log.Info("subscriber removed",
				zap.String("subscriber", string(sub.id)),
				zap.Stringer("event", ev),
				zap.Error(err),
			)
		}
	}
}
