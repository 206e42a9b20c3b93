// Package events carries color and request notifications between the
// dispatcher and its observers (metrics, board LED, live API streams).
package events

import (
	"github.com/kelindar/event"
)

// Bus is an in-process publish/subscribe hub. A nil *Bus drops
// publications and ignores subscriptions.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers ev asynchronously to every handler registered for T.
func Publish[T Event](b *Bus, ev T) {
	if b == nil {
		return
	}
	event.Publish(b.dispatcher, ev)
}

// On registers fn for events of type T and returns the function that
// removes it.
func On[T Event](b *Bus, fn func(T)) func() {
	if b == nil {
		return func() {}
	}
	return event.Subscribe(b.dispatcher, fn)
}

// Forward copies events of type T into ch for use in select loops. Events
// are dropped while ch is full so a slow reader never blocks publishers.
func Forward[T Event](b *Bus, ch chan<- any) func() {
	return On(b, func(ev T) {
		select {
		case ch <- ev:
		default:
		}
	})
}
