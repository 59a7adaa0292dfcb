package event

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Publisher is the event sink passed into application use-cases. Trigger
// must not block and must not surface delivery failures to the caller.
type Publisher interface {
	Trigger(ctx context.Context, e Event)
}

// Handler consumes a single event. Errors are observed by the dispatcher,
// not the publishing use-case.
type Handler func(ctx context.Context, e Event) error

// Dispatcher fans events out to subscribed handlers asynchronously.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for an event kind.
func (d *Dispatcher) Subscribe(kind string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Trigger dispatches the event to all handlers for its kind, each in its own
// goroutine. The event context is detached from the request context so that
// handlers outlive the originating HTTP request.
func (d *Dispatcher) Trigger(ctx context.Context, e Event) {
	d.mu.RLock()
	handlers := d.handlers[e.Kind()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debug().Str("kind", e.Kind()).Msg("event: no handlers subscribed")
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, h := range handlers {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			defer func() {
				if p := recover(); p != nil {
					log.Error().Interface("panic_value", p).Str("kind", e.Kind()).Msg("event: handler panicked")
				}
			}()

			if err := h(detached, e); err != nil {
				log.Error().Err(err).Str("kind", e.Kind()).Msg("event: handler failed")
			}
		}(h)
	}
}

// Wait blocks until all in-flight handlers finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
