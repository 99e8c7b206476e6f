package event

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// BusConfig configures bus behavior.
type BusConfig struct {
	// BufferSize is the channel buffer size per subscription.
	// Default: 256. Ignored in synchronous mode.
	BufferSize int

	// Synchronous delivers events inline from Publish instead of
	// through per-subscription goroutines. Publish then returns only
	// after every matching handler has run.
	Synchronous bool

	// NonBlocking makes Publish drop events when a subscription's
	// buffer is full instead of waiting. Ignored in synchronous mode.
	NonBlocking bool

	// OnDrop is called when an event is dropped (non-blocking mode).
	OnDrop func(evt Event, subscriberID string)
}

// DefaultBusConfig provides reasonable defaults.
var DefaultBusConfig = BusConfig{
	BufferSize: 256,
}

// Bus is an in-memory pub/sub fan-out for engine events.
type Bus struct {
	config BusConfig

	mu            sync.RWMutex
	subscriptions map[string]*subscription
	byType        map[string]map[string]*subscription // event type -> subscription ID -> subscription
	wildcards     map[string]*subscription            // subscriptions for all events

	nextID atomic.Int64
	closed atomic.Bool
}

// NewBus creates a new local event bus.
func NewBus(config BusConfig) *Bus {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBusConfig.BufferSize
	}
	return &Bus{
		config:        config,
		subscriptions: make(map[string]*subscription),
		byType:        make(map[string]map[string]*subscription),
		wildcards:     make(map[string]*subscription),
	}
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription. Already-buffered events
	// are discarded.
	Unsubscribe()
}

type subscription struct {
	id      string
	types   []string // empty = all types
	handler Handler
	events  chan Event // nil in synchronous mode
	done    chan struct{}
	bus     *Bus
}

// Publish sends an event to all matching subscribers.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(evt Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	subs := b.matching(evt.Type)
	b.mu.RUnlock()

	for _, sub := range subs {
		if b.config.Synchronous {
			sub.handler(evt)
			continue
		}
		if b.config.NonBlocking {
			select {
			case sub.events <- evt:
			default:
				if b.config.OnDrop != nil {
					b.config.OnDrop(evt, sub.id)
				}
			}
		} else {
			select {
			case sub.events <- evt:
			case <-sub.done:
			}
		}
	}
}

// Subscribe creates a subscription for specific event types.
// Returns nil if the bus is closed.
func (b *Bus) Subscribe(types []string, handler Handler) Subscription {
	return b.subscribe(types, handler)
}

// SubscribeAll subscribes to all events.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.subscribe(nil, handler)
}

func (b *Bus) subscribe(types []string, handler Handler) Subscription {
	if b.closed.Load() || handler == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{
		id:      strconv.FormatInt(b.nextID.Add(1), 10),
		types:   types,
		handler: handler,
		done:    make(chan struct{}),
		bus:     b,
	}
	if !b.config.Synchronous {
		sub.events = make(chan Event, b.config.BufferSize)
		go sub.process()
	}

	b.subscriptions[sub.id] = sub
	if len(types) == 0 {
		b.wildcards[sub.id] = sub
	} else {
		for _, t := range types {
			if b.byType[t] == nil {
				b.byType[t] = make(map[string]*subscription)
			}
			b.byType[t][sub.id] = sub
		}
	}

	return sub
}

// matching returns all subscriptions for an event type.
// Caller must hold at least a read lock.
func (b *Bus) matching(eventType string) []*subscription {
	subs := make([]*subscription, 0, len(b.wildcards))
	if typeSubs, ok := b.byType[eventType]; ok {
		for _, sub := range typeSubs {
			subs = append(subs, sub)
		}
	}
	for _, sub := range b.wildcards {
		subs = append(subs, sub)
	}
	return subs
}

// Close shuts down the bus and all subscriptions.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscriptions {
		close(sub.done)
	}
	b.subscriptions = make(map[string]*subscription)
	b.byType = make(map[string]map[string]*subscription)
	b.wildcards = make(map[string]*subscription)

	return nil
}

// process drains events for one asynchronous subscription.
func (s *subscription) process() {
	for {
		select {
		case evt := <-s.events:
			s.handler(evt)
		case <-s.done:
			return
		}
	}
}

// Unsubscribe removes the subscription.
func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if _, ok := s.bus.subscriptions[s.id]; !ok {
		return
	}
	delete(s.bus.subscriptions, s.id)
	delete(s.bus.wildcards, s.id)
	for _, t := range s.types {
		if typeSubs, ok := s.bus.byType[t]; ok {
			delete(typeSubs, s.id)
		}
	}
	close(s.done)
}
