package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/servis-automat/servis/internal/shared/goroutine"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

const (
	defaultBufferSize     = 100
	defaultHandlerTimeout = 30 * time.Second
)

var (
	ErrDispatcherStopped = errors.New("event dispatcher is not running")
	ErrDispatcherRunning = errors.New("event dispatcher is already running")
	ErrQueueFull         = errors.New("event queue is full")
)

// InMemoryEventDispatcher queues events in a bounded channel drained by one
// goroutine. Every matching handler runs in its own goroutine with a
// timeout, so a slow SMTP server never delays the Kafka feed.
type InMemoryEventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	running  bool

	queue    chan DomainEvent
	stop     chan struct{}
	loop     sync.WaitGroup
	inflight sync.WaitGroup
	dropped  atomic.Uint64

	handlerTimeout time.Duration
	logger         logger.Interface
}

func NewInMemoryEventDispatcher(bufferSize int, log logger.Interface) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &InMemoryEventDispatcher{
		handlers:       make(map[string][]EventHandler),
		queue:          make(chan DomainEvent, bufferSize),
		stop:           make(chan struct{}),
		handlerTimeout: defaultHandlerTimeout,
		logger:         log,
	}
}

func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		return ErrDispatcherStopped
	}
	select {
	case d.queue <- event:
		return nil
	default:
		d.dropped.Add(1)
		return ErrQueueFull
	}
}

// Dropped counts events rejected because the queue was full.
func (d *InMemoryEventDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Subscribe registers handler for eventType, or for every type with
// AllEvents.
func (d *InMemoryEventDispatcher) Subscribe(eventType string, handler EventHandler) error {
	switch {
	case eventType == "":
		return errors.New("event type cannot be empty")
	case handler == nil:
		return errors.New("handler cannot be nil")
	}
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.mu.Unlock()
	return nil
}

func (d *InMemoryEventDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrDispatcherRunning
	}
	d.running = true
	d.loop.Add(1)
	go d.drain()
	return nil
}

// Stop delivers what is already queued and waits for running handlers.
func (d *InMemoryEventDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherStopped
	}
	d.running = false
	d.mu.Unlock()

	close(d.stop)
	d.loop.Wait()
	d.inflight.Wait()

	if n := d.Dropped(); n > 0 {
		d.logger.Warnw("event dispatcher dropped events", "count", n)
	}
	return nil
}

func (d *InMemoryEventDispatcher) drain() {
	defer d.loop.Done()
	for {
		select {
		case event := <-d.queue:
			d.dispatch(event)
		case <-d.stop:
			for {
				select {
				case event := <-d.queue:
					d.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

func (d *InMemoryEventDispatcher) matching(eventType string) []EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]EventHandler, 0, len(d.handlers[eventType])+len(d.handlers[AllEvents]))
	out = append(out, d.handlers[eventType]...)
	out = append(out, d.handlers[AllEvents]...)
	return out
}

func (d *InMemoryEventDispatcher) dispatch(event DomainEvent) {
	name := event.EventName()
	for _, h := range d.matching(name) {
		if !h.CanHandle(name) {
			continue
		}
		h := h
		d.inflight.Add(1)
		goroutine.SafeGo(d.logger, "event:"+name, func() {
			defer d.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.handlerTimeout)
			defer cancel()
			if err := h.Handle(ctx, event); err != nil {
				d.logger.Errorw("event handler failed",
					"event_type", name,
					"aggregate_id", event.Key(),
					"handler", handlerName(h),
					"error", err,
				)
			}
		})
	}
}

func handlerName(h EventHandler) string {
	if s, ok := h.(interface{ Name() string }); ok {
		return s.Name()
	}
	return "anonymous"
}
