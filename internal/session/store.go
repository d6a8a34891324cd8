// Package session keeps per-session state that lives outside the durable
// store. The only such state is the shopping cart.
package session

import (
	"context"

	"taniku/internal/domain"
)

// CartStore holds one cart per session id. A session without a stored cart
// has an empty one.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

func cloneCart(cart domain.Cart) domain.Cart {
	out := make(domain.Cart, len(cart))
	copy(out, cart)
	return out
}
