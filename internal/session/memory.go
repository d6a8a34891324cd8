package session

import (
	"context"
	"sync"
	"time"

	"taniku/internal/domain"
)

type memoryEntry struct {
	cart      domain.Cart
	expiresAt time.Time
}

// MemoryCartStore keeps carts in process memory. Entries idle for longer than
// the ttl are dropped on the next access; a zero ttl keeps them forever.
type MemoryCartStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCartStore creates an in-memory cart store
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryCartStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return domain.Cart{}, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return domain.Cart{}, nil
	}
	return cloneCart(entry.cart), nil
}

func (s *MemoryCartStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = memoryEntry{
		cart:      cloneCart(cart),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}
