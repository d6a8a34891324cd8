package database

import (
	"fmt"
	"os"

	"taniku/internal/domain"
)

const (
	UsersCollection  = "users"
	ItemsCollection  = "items"
	OrdersCollection = "orders"
)

// Store groups the three collections that make up the persisted state
type Store struct {
	dir    string
	Users  *Collection[domain.User]
	Items  *Collection[domain.Item]
	Orders *Collection[domain.Order]
}

// Open prepares dir and returns the collections stored inside it
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Store{
		dir:    dir,
		Users:  NewCollection[domain.User](dir, UsersCollection),
		Items:  NewCollection[domain.Item](dir, ItemsCollection),
		Orders: NewCollection[domain.Order](dir, OrdersCollection),
	}, nil
}

// Dir returns the data directory
func (s *Store) Dir() string { return s.dir }

// Health reports the state of the data directory and each collection file
func (s *Store) Health() map[string]string {
	stats := map[string]string{"data_dir": s.dir}

	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		stats["status"] = "down"
		return stats
	}

	stats["status"] = "up"
	for name, path := range map[string]string{
		UsersCollection:  s.Users.Path(),
		ItemsCollection:  s.Items.Path(),
		OrdersCollection: s.Orders.Path(),
	} {
		if _, err := os.Stat(path); err != nil {
			stats[name] = "missing"
			continue
		}
		stats[name] = "ok"
	}
	return stats
}
