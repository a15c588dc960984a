// Package notify shows desktop notifications when the playing track
// changes.
package notify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/playback"
)

// Urgency is a freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// nowPlayingTimeout is how long a track notification stays up, in ms.
const nowPlayingTimeout = 5000

// Notification is a single desktop notification.
type Notification struct {
	Title      string // summary, required
	Body       string
	Icon       string  // image path or icon name
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id, 0 when notifications are
	// unavailable.
	Notify(n Notification) (uint32, error)
	// Close withdraws the notification with the given id.
	Close(id uint32) error
}

// NowPlaying keeps a single notification describing the current track,
// replacing it on every track change.
type NowPlaying struct {
	notifier Notifier
	log      *zap.Logger
	id       uint32
}

// NewNowPlaying creates a now-playing notifier.
func NewNowPlaying(n Notifier, log *zap.Logger) *NowPlaying {
	if log == nil {
		log = zap.NewNop()
	}
	return &NowPlaying{notifier: n, log: log.Named("notify")}
}

// Run shows track changes from sub until it is closed. The notification
// is withdrawn on return.
func (p *NowPlaying) Run(sub *playback.Subscription) {
	p.run(sub.TrackChanged, sub.Done)
}

func (p *NowPlaying) run(changes <-chan playback.TrackChange, done <-chan struct{}) {
	defer p.clear()
	for {
		select {
		case <-done:
			return
		case change := <-changes:
			p.show(change)
		}
	}
}

func (p *NowPlaying) show(change playback.TrackChange) {
	if change.Current == nil {
		return
	}
	n := nowPlaying(*change.Current)
	n.ReplacesID = p.id
	id, err := p.notifier.Notify(n)
	if err != nil {
		p.log.Debug("notify failed", zap.String("path", change.Current.Path), zap.Error(err))
		return
	}
	p.id = id
}

func (p *NowPlaying) clear() {
	if p.id == 0 {
		return
	}
	if err := p.notifier.Close(p.id); err != nil {
		p.log.Debug("close notification", zap.Error(err))
	}
	p.id = 0
}

func nowPlaying(t playback.Track) Notification {
	var parts []string
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Album != "" {
		parts = append(parts, t.Album)
	}
	return Notification{
		Title:   t.Title,
		Body:    strings.Join(parts, " - "),
		Icon:    FindAlbumArtPath(t.Path),
		Timeout: nowPlayingTimeout,
		Urgency: UrgencyLow,
	}
}
