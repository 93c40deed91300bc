package session

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/kmorrow/rackscore/internal/game"
)

// Repository is the persistence collaborator the controller depends on.
// *store.Store implements it; tests may substitute a failing wrapper.
//
// The repository serves a single authoritative current session at a time;
// every transition is computed from one read and written back whole.
type Repository interface {
	CurrentSession(ctx context.Context) (game.State, bool, error)
	SaveSession(ctx context.Context, st game.State) error
	ClearSession(ctx context.Context) error

	History(ctx context.Context) ([]game.State, error)
	HistorySession(ctx context.Context, id string) (game.State, bool, error)
	ArchiveSession(ctx context.Context, st game.State, saveOverride bool) error
	DeleteFromHistory(ctx context.Context, id string) error
	UpdateInHistory(ctx context.Context, st game.State) error

	Settings(ctx context.Context) (game.Settings, error)
	SaveSettings(ctx context.Context, cfg game.Settings) error

	CreateSnapshot(ctx context.Context, label string) error
}

// Analytics receives controller transition events. Failures to record are
// never surfaced to the caller.
type Analytics interface {
	Track(event string, fields map[string]any)
}

// SlogAnalytics is the default Analytics sink: structured debug logging.
type SlogAnalytics struct{}

// Track logs the event with its fields at debug level.
func (SlogAnalytics) Track(event string, fields map[string]any) {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	slog.Debug("analytics: "+event, args...)
}

// DeviceInfoProvider supplies the device string stamped onto new sessions.
type DeviceInfoProvider interface {
	DeviceInfo() string
}

// HostDeviceInfo reports hostname and platform.
type HostDeviceInfo struct{}

// DeviceInfo returns "hostname (os/arch)".
func (HostDeviceInfo) DeviceInfo() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}
