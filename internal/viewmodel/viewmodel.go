// Package viewmodel holds the state the views render and the commands they
// trigger. Nothing here knows about terminals; views query state, call
// commands, and subscribe to be told when state was republished.
package viewmodel

import (
	"sync"

	"github.com/idilsaglam/shoplist/internal/model"
)

// ItemStore is what the view-models need from the store.
type ItemStore interface {
	Add(title string) ([]model.Item, error)
	Update(item model.Item) error
}

// listeners is a small fan-out used by both view-models.
type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners[T]) notify(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.fns))
	// subscription order
	for i := 0; i < l.next; i++ {
		if fn, ok := l.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
