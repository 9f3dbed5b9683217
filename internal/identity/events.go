package identity

import "sync"

// Session-change events the caller may react to (e.g. dropping a cached
// resolved profile on sign-out).
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// Events is a small in-process broker for session-change notifications.
type Events struct {
	mu   sync.Mutex
	subs map[int]func(event, sessionKey string)
	next int
}

func NewEvents() *Events {
	return &Events{subs: make(map[int]func(string, string))}
}

// Subscribe registers fn and returns its unsubscribe func. Callers must
// unsubscribe on teardown.
func (e *Events) Subscribe(fn func(event, sessionKey string)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Emit calls every subscriber synchronously, in no particular order.
func (e *Events) Emit(event, sessionKey string) {
	e.mu.Lock()
	fns := make([]func(string, string), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(event, sessionKey)
	}
}
