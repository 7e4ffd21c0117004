package auth

import "sync"

// Session is the single owner of the current identity. Components that need
// to know who is signed in pull Current(); components that need to react to
// sign-in/sign-out subscribe to change notifications. Nothing else holds the
// identity in a shared variable.
type Session struct {
	mu          sync.RWMutex
	current     *Identity
	subscribers []chan *Identity
}

func NewSession() *Session {
	return &Session{}
}

// Current returns the signed-in identity, or nil when signed out.
func (s *Session) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SignIn replaces the current identity and notifies subscribers.
func (s *Session) SignIn(id *Identity) {
	s.set(id)
}

// SignOut clears the identity and notifies subscribers with nil.
func (s *Session) SignOut() {
	s.set(nil)
}

func (s *Session) set(id *Identity) {
	s.mu.Lock()
	s.current = id
	subs := make([]chan *Identity, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		// non-blocking: a slow subscriber drops the notification and pulls
		// Current() on its next turn instead
		select {
		case ch <- id:
		default:
		}
	}
}

// Subscribe returns a channel receiving each identity change. The channel is
// buffered by one; listeners that fall behind miss intermediate states, never
// the final one combined with Current().
func (s *Session) Subscribe() <-chan *Identity {
	ch := make(chan *Identity, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}
