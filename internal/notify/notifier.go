// Package notify defines the notification interface and implementations
// for upstream health events.
package notify

import (
	"context"
	"time"
)

// BreakerEvent reports that an upstream service's circuit breaker changed
// state.
type BreakerEvent struct {
	Service       string
	Open          bool
	FailureCount  int
	LastFailureAt time.Time
	At            time.Time
}

// Notifier defines the interface for sending breaker notifications.
type Notifier interface {
	SendBreakerEvent(ctx context.Context, event *BreakerEvent) error
}
