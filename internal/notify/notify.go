// Package notify delivers fire-and-forget user-visible messages about
// sync progress and failures. The engine never depends on a concrete
// sink so embedding hosts can surface messages however they like.
package notify

import "log/slog"

// Notifier receives user-visible sync messages. Implementations must not
// block; the engine calls Notify on its single pass goroutine.
type Notifier interface {
	Notify(msg string)
}

// LogNotifier writes notifications through a structured logger. This is
// the default sink for the standalone daemon.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at info level under a "notify" marker.
func (n *LogNotifier) Notify(msg string) {
	n.logger.Info(msg, slog.Bool("notify", true))
}

// Discard is a Notifier that drops every message. Selected when the
// SILENT config flag suppresses notifications.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(string) {}
