package services

import "context"

// NotificationSink receives notifications produced as side effects of other
// services. Producers depend on this interface rather than on the
// NotificationService itself, so feed delivery can be swapped or silenced in
// tests.
type NotificationSink interface {
	Notify(ctx context.Context, input CreateNotificationInput) error
}

// noopSink discards notifications. Used when a producer is constructed
// without a sink.
type noopSink struct{}

func (noopSink) Notify(context.Context, CreateNotificationInput) error { return nil }
