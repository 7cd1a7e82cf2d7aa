// Package bus provides the in-process publish/subscribe channel used to
// announce record mutations to presentation collaborators.
//
// Delivery is synchronous and best-effort: subscribers run on the
// publisher's goroutine, and a panicking subscriber is logged without
// aborting the publisher or the remaining subscribers.
package bus

import (
	"log"
	"os"
	"sync"
	"time"
)

// Topic names a class of record mutation.
type Topic string

const (
	TopicBookmarkAdded   Topic = "bookmark-added"
	TopicBookmarkUpdated Topic = "bookmark-updated"
	TopicBookmarkRemoved Topic = "bookmark-removed"
	TopicCategoryUpdated Topic = "category-updated"
	TopicTagUpdated      Topic = "tag-updated"
	TopicSyncComplete    Topic = "sync-complete"
)

// Event is one published mutation announcement.
type Event struct {
	Topic Topic
	Time  time.Time
	Data  any
}

// Handler consumes events. Handlers must not block; long work belongs on
// the subscriber's own goroutine.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]subscription
	nextID int
	logger *log.Logger
}

type subscription struct {
	topic   Topic // "" subscribes to every topic
	handler Handler
}

// New creates a bus. If logger is nil, a default logger writing to stderr
// is used.
func New(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(os.Stderr, "[bus] ", log.LstdFlags)
	}
	return &Bus{
		subs:   make(map[int]subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for one topic. An empty topic receives
// every event. The returned function removes the subscription.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{topic: topic, handler: h}
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to matching subscribers synchronously.
func (b *Bus) Publish(topic Topic, data any) {
	ev := Event{Topic: topic, Time: time.Now(), Data: data}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == "" || s.topic == topic {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}
}

// deliver runs one handler, containing panics.
func (b *Bus) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("subscriber panic on %s: %v", ev.Topic, r)
		}
	}()
	h(ev)
}
