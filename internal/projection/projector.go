package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

var eventsProjected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "projector_events_total",
	Help: "Events handled by the checkout projector, by event type and result.",
}, []string{"event_type", "result"})

// Projector builds the checkout history from the handoff events.
type Projector struct {
	checkouts store.CheckoutStore
	logger    *zap.Logger
}

func NewProjector(checkouts store.CheckoutStore, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{checkouts: checkouts, logger: logger}
}

// HandleEvent is the Kafka consumer callback.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		eventsProjected.WithLabelValues("unknown", "malformed").Inc()
		return fmt.Errorf("decode event envelope: %w", err)
	}
	return p.Project(ctx, event)
}

// Project applies one event. Events it does not know are skipped.
func (p *Projector) Project(ctx context.Context, event store.Event) error {
	p.logger.Debug("received event",
		zap.String("event_type", event.EventType),
		zap.String("aggregate_type", event.AggregateType),
		zap.String("aggregate_id", event.AggregateID),
	)

	if event.AggregateType != cart.AggregateType {
		eventsProjected.WithLabelValues(event.EventType, "skipped").Inc()
		return nil
	}

	switch event.EventType {
	case cart.EventCheckoutRequested:
		err := p.handleCheckoutRequested(ctx, event)
		if err != nil {
			eventsProjected.WithLabelValues(event.EventType, "error").Inc()
			return err
		}
		eventsProjected.WithLabelValues(event.EventType, "ok").Inc()
	default:
		eventsProjected.WithLabelValues(event.EventType, "skipped").Inc()
	}
	return nil
}

// Replay projects a batch of stored events in order, stopping at the first
// failure.
func (p *Projector) Replay(ctx context.Context, events []store.Event) error {
	for _, e := range events {
		if err := p.Project(ctx, e); err != nil {
			return err
		}
	}
	p.logger.Info("replayed events", zap.Int("count", len(events)))
	return nil
}

func (p *Projector) handleCheckoutRequested(ctx context.Context, event store.Event) error {
	var e cart.CheckoutRequested
	if err := event.Decode(&e); err != nil {
		return err
	}
	if e.OrderID == "" {
		e.OrderID = event.AggregateID
	}
	if err := p.checkouts.Save(ctx, readmodel.FromCheckout(e)); err != nil {
		return fmt.Errorf("save checkout %s: %w", e.OrderID, err)
	}
	p.logger.Info("checkout projected",
		zap.String("order_id", e.OrderID),
		zap.String("user_id", e.UserID),
		zap.Int("amount", e.Amount),
	)
	return nil
}
