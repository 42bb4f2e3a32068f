package query

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/auth"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

type Handler struct {
	carts     *cart.Service
	checkouts store.CheckoutStore
	logger    *zap.Logger
}

func NewHandler(carts *cart.Service, checkouts store.CheckoutStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		carts:     carts,
		checkouts: checkouts,
		logger:    logger,
	}
}

// GetCart fetches the whole cart from the backend and returns the fresh view.
// When the fetch fails the error is returned and the cached view is kept.
func (h *Handler) GetCart(ctx context.Context, s auth.Session) (*readmodel.CartReadModel, error) {
	e := h.carts.Engine(s.UserID, s.Token, s.ExpiresAt)
	if err := e.Load(ctx); err != nil {
		h.sessionFailed(s, err)
		return nil, err
	}
	v, _ := e.View()
	return readmodel.FromView(s.UserID, v), nil
}

// CurrentCart returns the cached view, loading it if the session has none.
func (h *Handler) CurrentCart(ctx context.Context, s auth.Session) (*readmodel.CartReadModel, error) {
	e := h.carts.Engine(s.UserID, s.Token, s.ExpiresAt)
	v, loaded := e.View()
	if !loaded {
		return h.GetCart(ctx, s)
	}
	return readmodel.FromView(s.UserID, v), nil
}

// RefreshCart re-applies retention and grouping to the cached snapshot
// without calling the backend.
func (h *Handler) RefreshCart(ctx context.Context, s auth.Session) (*readmodel.CartReadModel, error) {
	e := h.carts.Engine(s.UserID, s.Token, s.ExpiresAt)
	if _, loaded := e.View(); !loaded {
		return h.GetCart(ctx, s)
	}
	return readmodel.FromView(s.UserID, e.Refresh()), nil
}

// ListCheckouts returns the user's payment handoffs, newest first
func (h *Handler) ListCheckouts(ctx context.Context, userID string) ([]*readmodel.CheckoutReadModel, error) {
	list, err := h.checkouts.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("listing checkouts failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (h *Handler) sessionFailed(s auth.Session, err error) {
	if errors.Is(err, cart.ErrSessionExpired) {
		h.carts.Drop(s.UserID)
	}
}
