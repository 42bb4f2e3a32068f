package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/storefront-cart/internal/readmodel"
)

// MemoryCheckoutStore keeps checkout history in memory
type MemoryCheckoutStore struct {
	mu        sync.RWMutex
	checkouts map[string]*readmodel.CheckoutReadModel // orderID -> checkout
}

func NewMemoryCheckoutStore() *MemoryCheckoutStore {
	return &MemoryCheckoutStore{
		checkouts: make(map[string]*readmodel.CheckoutReadModel),
	}
}

func (s *MemoryCheckoutStore) Save(ctx context.Context, c *readmodel.CheckoutReadModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkouts[c.OrderID]; ok {
		return nil
	}
	s.checkouts[c.OrderID] = cloneCheckout(c)
	return nil
}

func (s *MemoryCheckoutStore) Get(ctx context.Context, orderID string) (*readmodel.CheckoutReadModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkouts[orderID]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	return cloneCheckout(c), nil
}

func (s *MemoryCheckoutStore) ListByUser(ctx context.Context, userID string) ([]*readmodel.CheckoutReadModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*readmodel.CheckoutReadModel, 0)
	for _, c := range s.checkouts {
		if c.UserID == userID {
			out = append(out, cloneCheckout(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].OrderID < out[j].OrderID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}

func cloneCheckout(c *readmodel.CheckoutReadModel) *readmodel.CheckoutReadModel {
	cp := *c
	cp.Items = append([]readmodel.CheckoutItemReadModel(nil), c.Items...)
	return &cp
}
