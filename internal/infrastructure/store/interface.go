package store

import (
	"context"
	"errors"

	"github.com/example/storefront-cart/internal/readmodel"
)

var ErrCheckoutNotFound = errors.New("checkout not found")

// Publisher delivers an event envelope to the message bus
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// EventStoreInterface records domain events and publishes them
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(ctx context.Context, aggregateID string) ([]Event, error)
	GetAllEvents(ctx context.Context) ([]Event, error)
}

// CheckoutStore keeps the checkout handoff history
type CheckoutStore interface {
	// Save stores a checkout. Saving an order id twice keeps the first copy.
	Save(ctx context.Context, c *readmodel.CheckoutReadModel) error
	Get(ctx context.Context, orderID string) (*readmodel.CheckoutReadModel, error)
	// ListByUser returns a user's checkouts, newest first.
	ListByUser(ctx context.Context, userID string) ([]*readmodel.CheckoutReadModel, error)
}
