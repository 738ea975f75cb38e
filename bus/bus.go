package bus

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Message is a command: a request for state mutation routed to exactly one
// handler. The payload travels in serialized form; callers use a
// serialization.Serializer to produce it.
type Message struct {
	ID          string
	Name        string
	PayloadType string
	Payload     []byte
	Metadata    map[string]string
}

// WithMetadata returns a shallow copy of the message with the given key
// set. The original message is not modified.
func (m *Message) WithMetadata(key, value string) *Message {
	out := *m
	out.Metadata = make(map[string]string, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

// Result carries the outcome of a command execution: either a serialized
// payload or an error, never both.
type Result struct {
	RequestID   string
	PayloadType string
	Payload     []byte
	Err         error
}

// IsError reports whether the result is exceptional.
func (r Result) IsError() bool {
	return r.Err != nil
}

// Callback receives the result of a dispatched command. It is invoked
// exactly once per dispatch.
type Callback func(Result)

// Handler executes a single command and returns its serialized result.
type Handler func(ctx context.Context, msg *Message) (*Result, error)

// HandlerInterceptor wraps handler invocation. Interceptors compose in
// registration order, outermost first.
type HandlerInterceptor func(Handler) Handler

// Registration undoes a prior subscribe or interceptor registration.
// Calling it more than once is harmless.
type Registration func()

// CommandBus is the in-process dispatcher that runs handlers registered by
// the application.
type CommandBus interface {
	Subscribe(name string, h Handler) Registration
	Dispatch(ctx context.Context, msg *Message, cb Callback)
	RegisterHandlerInterceptor(i HandlerInterceptor) Registration
}

// NoHandlerError is returned when a command has no registered handler.
type NoHandlerError struct {
	Name string
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler for command %q", e.Name)
}

// ConcurrencyError signals an optimistic-concurrency failure in the local
// model. The connector maps it to a dedicated wire error code.
type ConcurrencyError struct {
	Msg string
}

func (e *ConcurrencyError) Error() string {
	if e.Msg == "" {
		return "concurrent modification detected"
	}
	return e.Msg
}

// IsConcurrencyError reports whether err is, or wraps, a ConcurrencyError.
func IsConcurrencyError(err error) bool {
	var ce *ConcurrencyError
	return errors.As(err, &ce)
}
