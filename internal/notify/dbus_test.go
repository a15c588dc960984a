//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireSessionBus(t *testing.T) {
	t.Helper()
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}
}

func TestDBusNotifier_NotifyAndReplace(t *testing.T) {
	requireSessionBus(t)

	notifier, err := New()
	require.NoError(t, err)

	first, err := notifier.Notify(Notification{Title: "Track 1", Body: "Artist - Album", Timeout: 1000})
	require.NoError(t, err)

	second, err := notifier.Notify(Notification{Title: "Track 2", Timeout: 1000, ReplacesID: first})
	require.NoError(t, err)
	require.Equal(t, first, second, "replacing keeps the notification id")

	require.NoError(t, notifier.Close(second))
}
