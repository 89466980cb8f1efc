package scanner

import (
	"sync"

	"github.com/rxtech-lab/argo-smc/internal/signal"
)

// StateBook owns one signal.State per symbol. Access to a symbol's state is
// serialized; different symbols proceed in parallel.
type StateBook struct {
	mu      sync.Mutex
	entries map[string]*stateEntry
}

type stateEntry struct {
	mu    sync.Mutex
	state *signal.State
}

// NewStateBook creates an empty book.
func NewStateBook() *StateBook {
	return &StateBook{entries: make(map[string]*stateEntry)}
}

// With runs fn while holding the symbol's lock, creating the state on first use.
func (b *StateBook) With(symbol string, fn func(state *signal.State)) {
	entry := b.entry(symbol)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	fn(entry.state)
}

// Snapshot returns a copy of the symbol's state.
func (b *StateBook) Snapshot(symbol string) (signal.State, bool) {
	b.mu.Lock()
	entry, ok := b.entries[symbol]
	b.mu.Unlock()

	if !ok {
		return signal.State{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return *entry.state, true
}

// Reset clears the symbol's bias and debounce memory.
func (b *StateBook) Reset(symbol string) {
	b.With(symbol, func(state *signal.State) {
		state.Reset()
	})
}

func (b *StateBook) entry(symbol string) *stateEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[symbol]
	if !ok {
		entry = &stateEntry{state: signal.NewState()}
		b.entries[symbol] = entry
	}

	return entry
}
