package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/infrastructure/store/mocks"
)

type payload struct {
	OrderID string `json:"order_id"`
	Amount  int    `json:"amount"`
}

func TestEventStore_AppendPublishes(t *testing.T) {
	pub := mocks.NewMockPublisher()
	es := store.NewEventStore(pub, nil)
	ctx := context.Background()

	first, err := es.Append(ctx, "order-1", "Cart", "CheckoutRequested", payload{OrderID: "order-1", Amount: 14220})
	require.NoError(t, err)
	second, err := es.Append(ctx, "order-1", "Cart", "CheckoutRequested", payload{OrderID: "order-1", Amount: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	require.Len(t, pub.PublishCalls, 2)
	assert.Equal(t, "order-1", pub.PublishCalls[0].Key)
	published, ok := pub.PublishCalls[0].Event.(store.Event)
	require.True(t, ok)
	var decoded payload
	require.NoError(t, published.Decode(&decoded))
	assert.Equal(t, 14220, decoded.Amount)

	events, err := es.GetEvents(ctx, "order-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventStore_PublishFailureDropsEvent(t *testing.T) {
	pub := mocks.NewMockPublisher()
	pub.PublishErr = errors.New("broker down")
	es := store.NewEventStore(pub, nil)
	ctx := context.Background()

	event, err := es.Append(ctx, "order-1", "Cart", "CheckoutRequested", payload{OrderID: "order-1"})

	assert.Error(t, err)
	assert.Nil(t, event)
	all, err := es.GetAllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEventStore_GetAllEventsOrdered(t *testing.T) {
	es := store.NewEventStore(nil, nil)
	ctx := context.Background()

	_, err := es.Append(ctx, "order-1", "Cart", "CheckoutRequested", payload{OrderID: "order-1"})
	require.NoError(t, err)
	_, err = es.Append(ctx, "order-2", "Cart", "CheckoutRequested", payload{OrderID: "order-2"})
	require.NoError(t, err)

	all, err := es.GetAllEvents(ctx)

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[1].Timestamp.Before(all[0].Timestamp))
}

func TestEvent_DecodeError(t *testing.T) {
	event := store.Event{ID: "e1", EventType: "CheckoutRequested", Data: []byte(`{"amount":"lots"}`)}

	var p payload
	err := event.Decode(&p)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CheckoutRequested")
}
