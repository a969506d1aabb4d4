package cart

import "sync"

// Store hands out one Cart per identity key. Carts live in memory only;
// a confirmed order is the sole durable artifact of a session.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the cart for the identity key, creating it on first use.
func (s *Store) Get(identityKey string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[identityKey]
	if !ok {
		c = New()
		s.carts[identityKey] = c
	}
	return c
}
