package mocks

import (
	"context"

	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

// MockCheckoutStore wraps the in-memory store and records calls
type MockCheckoutStore struct {
	*store.MemoryCheckoutStore

	SaveCalls []*readmodel.CheckoutReadModel
	ListCalls []string
	SaveErr   error
	ListErr   error
}

// NewMockCheckoutStore creates a new MockCheckoutStore
func NewMockCheckoutStore() *MockCheckoutStore {
	return &MockCheckoutStore{
		MemoryCheckoutStore: store.NewMemoryCheckoutStore(),
		SaveCalls:           make([]*readmodel.CheckoutReadModel, 0),
		ListCalls:           make([]string, 0),
	}
}

func (m *MockCheckoutStore) Save(ctx context.Context, c *readmodel.CheckoutReadModel) error {
	m.SaveCalls = append(m.SaveCalls, c)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	return m.MemoryCheckoutStore.Save(ctx, c)
}

func (m *MockCheckoutStore) ListByUser(ctx context.Context, userID string) ([]*readmodel.CheckoutReadModel, error) {
	m.ListCalls = append(m.ListCalls, userID)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.MemoryCheckoutStore.ListByUser(ctx, userID)
}
