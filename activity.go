package auth

import (
	"context"
	"time"
)

// EventType enumerates authentication events.
type EventType string

const (
	EventLoginSuccess    EventType = "auth.login.success"
	EventLoginFailure    EventType = "auth.login.failure"
	EventVerifySuccess   EventType = "auth.verify.success"
	EventVerifyFailure   EventType = "auth.verify.failure"
	EventRegisterSuccess EventType = "auth.register.success"
	EventRegisterFailure EventType = "auth.register.failure"
)

// Event describes the outcome of an authentication step. Kind carries the
// internal failure label (see FailureKind) and is empty on success.
type Event struct {
	Type       EventType
	Username   string
	Kind       string
	OccurredAt time.Time
}

// EventSink consumes authentication events, e.g. for metrics.
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event Event) error

// Record implements EventSink.
func (f EventSinkFunc) Record(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopEventSink struct{}

func (noopEventSink) Record(context.Context, Event) error {
	return nil
}

func normalizeEventSink(s EventSink) EventSink {
	if s == nil {
		return noopEventSink{}
	}
	return s
}
