package events

import (
	"context"
	"sync"

	"campuseats-be/internal/logger"

	"go.uber.org/zap"
)

// Handler reacts to a dispatched domain event. Handler errors are
// logged and swallowed: event side effects are best-effort and must
// never undo the state change that produced them.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Registry maps event names to subscribed handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

func (r *Registry) Subscribe(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], h)
}

// Dispatch delivers each event to every handler subscribed to its name.
// Callers invoke it only after their transaction has committed.
func (r *Registry) Dispatch(ctx context.Context, evts ...Event) {
	for _, e := range evts {
		r.mu.RLock()
		hs := r.handlers[e.Name()]
		r.mu.RUnlock()

		for _, h := range hs {
			if err := h.Handle(ctx, e); err != nil {
				logger.FromCtx(ctx).Warn("event handler failed",
					zap.String("event", e.Name()),
					zap.Error(err),
				)
			}
		}
	}
}
