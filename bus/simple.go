package bus

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Simple is a synchronous in-process command bus. Handlers run on the
// dispatching goroutine; the callback fires before Dispatch returns.
type Simple struct {
	mu           sync.RWMutex
	handlers     map[string]handlerEntry
	interceptors []registeredInterceptor
	nextID       uint64
}

type handlerEntry struct {
	id uint64
	h  Handler
}

type registeredInterceptor struct {
	id uint64
	i  HandlerInterceptor
}

// NewSimple returns an empty command bus.
func NewSimple() *Simple {
	return &Simple{handlers: make(map[string]handlerEntry)}
}

// Subscribe registers h for the given command name, replacing any previous
// handler. The returned registration removes the handler, but only if it
// has not been replaced since.
func (b *Simple) Subscribe(name string, h Handler) Registration {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[name] = handlerEntry{id: id, h: h}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			// Replacement by a later Subscribe wins.
			if cur, ok := b.handlers[name]; ok && cur.id == id {
				delete(b.handlers, name)
			}
		})
	}
}

// RegisterHandlerInterceptor adds i to the interceptor chain. Interceptors
// apply in registration order, outermost first.
func (b *Simple) RegisterHandlerInterceptor(i HandlerInterceptor) Registration {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.interceptors = append(b.interceptors, registeredInterceptor{id: id, i: i})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for n, ri := range b.interceptors {
				if ri.id == id {
					b.interceptors = append(b.interceptors[:n], b.interceptors[n+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch runs the handler registered for msg.Name and delivers its
// outcome to cb. A missing handler, a handler error, or a handler panic all
// surface as an exceptional result; Dispatch never panics.
func (b *Simple) Dispatch(ctx context.Context, msg *Message, cb Callback) {
	b.mu.RLock()
	entry, ok := b.handlers[msg.Name]
	chain := make([]registeredInterceptor, len(b.interceptors))
	copy(chain, b.interceptors)
	b.mu.RUnlock()

	if !ok {
		cb(Result{RequestID: msg.ID, Err: &NoHandlerError{Name: msg.Name}})
		return
	}
	h := entry.h

	for n := len(chain) - 1; n >= 0; n-- {
		h = chain[n].i(h)
	}

	res, err := invoke(ctx, h, msg)
	if err != nil {
		cb(Result{RequestID: msg.ID, Err: err})
		return
	}
	if res == nil {
		res = &Result{}
	}
	res.RequestID = msg.ID
	cb(*res)
}

func invoke(ctx context.Context, h Handler, msg *Message) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Handler for %q panicked: %v", msg.Name, r)
			res, err = nil, errors.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, msg)
}
