package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendBreakerEvent logs and discards a breaker event.
func (n *NoOpNotifier) SendBreakerEvent(_ context.Context, event *BreakerEvent) error {
	n.log.Debug("notification discarded (no backend configured)",
		"service", event.Service,
		"open", event.Open,
		"failures", event.FailureCount,
	)
	return nil
}
