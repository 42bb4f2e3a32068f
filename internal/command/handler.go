package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/auth"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrHandoffFailed  = errors.New("payment handoff failed")
)

type Handler struct {
	carts    *cart.Service
	events   store.EventStoreInterface
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandler(carts *cart.Service, events store.EventStoreInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		carts:    carts,
		events:   events,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// AddToCart puts a product into one store's cart
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.AddItem(ctx, cmd.StoreID, cart.NewItem{
			ItemID:        cmd.ItemID,
			ItemName:      cmd.ItemName,
			OriginalPrice: cmd.OriginalPrice,
			SellingPrice:  cmd.SellingPrice,
			Quantity:      cmd.Quantity,
		})
	})
}

// SelectLine toggles one line
func (h *Handler) SelectLine(ctx context.Context, cmd SelectLine) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.SelectLine(cmd.LineID)
	})
}

// SelectStore sets every purchasable line of a store
func (h *Handler) SelectStore(ctx context.Context, cmd SelectStore) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.SelectStore(cmd.StoreID, *cmd.Selected)
	})
}

// SelectAll sets every purchasable line of the cart
func (h *Handler) SelectAll(ctx context.Context, cmd SelectAll) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		e.SelectAll(*cmd.Selected)
		return nil
	})
}

// SetQuantity changes a line's quantity, clamped to [1, stock]
func (h *Handler) SetQuantity(ctx context.Context, cmd SetQuantity) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.SetQuantity(ctx, cmd.LineID, *cmd.Quantity)
	})
}

func (h *Handler) RemoveLine(ctx context.Context, cmd RemoveLine) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.RemoveLine(ctx, cmd.LineID)
	})
}

func (h *Handler) RemoveSelected(ctx context.Context, cmd RemoveSelected) error {
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.RemoveSelected(ctx)
	})
}

func (h *Handler) ClearStore(ctx context.Context, cmd ClearStore) error {
	if err := h.check(cmd); err != nil {
		return err
	}
	return h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		return e.ClearStore(ctx, cmd.StoreID)
	})
}

// Checkout builds the summary of the selected lines and hands it to payment
// as a CheckoutRequested event. The cart itself is left untouched.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (*readmodel.CheckoutReadModel, error) {
	var event cart.CheckoutRequested
	err := h.run(ctx, cmd.Session, func(e *cart.Engine) error {
		summary, err := e.Checkout()
		if err != nil {
			return err
		}
		event = cart.NewCheckoutRequested(uuid.NewString(), cmd.UserID, summary, h.now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := h.events.Append(ctx, event.OrderID, cart.AggregateType, cart.EventCheckoutRequested, event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHandoffFailed, err)
	}

	h.logger.Info("checkout handed to payment",
		zap.String("user_id", cmd.UserID),
		zap.String("order_id", event.OrderID),
		zap.Int("amount", event.Amount),
		zap.Int("lines", len(event.Items)),
	)
	return readmodel.FromCheckout(event), nil
}

func (h *Handler) check(cmd any) error {
	if err := h.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return nil
}

// run executes fn on the session's engine, loading the cart first when the
// engine has never seen it. An expired session drops the engine.
func (h *Handler) run(ctx context.Context, s auth.Session, fn func(e *cart.Engine) error) error {
	e := h.carts.Engine(s.UserID, s.Token, s.ExpiresAt)
	err := func() error {
		if _, loaded := e.View(); !loaded {
			if err := e.Load(ctx); err != nil {
				return err
			}
		}
		return fn(e)
	}()
	if errors.Is(err, cart.ErrSessionExpired) {
		h.carts.Drop(s.UserID)
	}
	return err
}
