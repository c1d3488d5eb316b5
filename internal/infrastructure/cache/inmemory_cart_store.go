package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tradelink/backend/internal/domain/settlement"
)

// InMemoryCartStore keeps buyer carts in a local map, one inner map per
// buyer keyed by product id. Suitable for a single instance and for tests;
// multi-instance deployments use the Redis store.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]map[uuid.UUID]string
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[string]map[uuid.UUID]string),
	}
}

// AddItem records a cart line for the buyer
func (s *InMemoryCartStore) AddItem(ctx context.Context, buyerEmail string, productID uuid.UUID, quantity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[buyerEmail]
	if !exists {
		cart = make(map[uuid.UUID]string)
		s.carts[buyerEmail] = cart
	}
	cart[productID] = quantity
	return nil
}

// RemovePurchasedItems deletes the purchased product lines from the buyer's
// cart after an order is paid
func (s *InMemoryCartStore) RemovePurchasedItems(ctx context.Context, buyerEmail string, productIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[buyerEmail]
	if !exists {
		return nil
	}
	for _, id := range productIDs {
		delete(cart, id)
	}
	if len(cart) == 0 {
		delete(s.carts, buyerEmail)
	}
	return nil
}

// ItemCount returns the number of lines in a buyer's cart (for tests)
func (s *InMemoryCartStore) ItemCount(buyerEmail string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts[buyerEmail])
}

var _ settlement.CartRemover = (*InMemoryCartStore)(nil)
