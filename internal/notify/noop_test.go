package notify

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_SendBreakerEvent(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.DiscardHandler))
	err := n.SendBreakerEvent(context.Background(), &BreakerEvent{
		Service:      "llm",
		Open:         true,
		FailureCount: 3,
	})
	require.NoError(t, err)
}

// compile-time interface check.
var _ Notifier = (*NoOpNotifier)(nil)
