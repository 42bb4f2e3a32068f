package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/api/middleware"
	"github.com/example/storefront-cart/internal/auth"
	"github.com/example/storefront-cart/internal/command"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	logger       *zap.Logger
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		logger:       logger,
	}
}

type selectionRequest struct {
	Selected *bool `json:"selected"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryHandler.GetCart(r.Context(), session(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) RefreshCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryHandler.RefreshCart(r.Context(), session(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToCart
	if !decode(w, r, &cmd) {
		return
	}
	cmd.Session = session(r)
	cmd.StoreID = r.PathValue("storeId")

	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusCreated)
}

func (h *Handlers) SelectLine(w http.ResponseWriter, r *http.Request) {
	cmd := command.SelectLine{Session: session(r), LineID: r.PathValue("lineId")}
	if err := h.cmdHandler.SelectLine(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) SelectStore(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decode(w, r, &req) {
		return
	}
	cmd := command.SelectStore{Session: session(r), StoreID: r.PathValue("storeId"), Selected: req.Selected}
	if err := h.cmdHandler.SelectStore(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) SelectAll(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decode(w, r, &req) {
		return
	}
	cmd := command.SelectAll{Session: session(r), Selected: req.Selected}
	if err := h.cmdHandler.SelectAll(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if !decode(w, r, &req) {
		return
	}
	cmd := command.SetQuantity{Session: session(r), LineID: r.PathValue("lineId"), Quantity: req.Quantity}
	if err := h.cmdHandler.SetQuantity(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveLine{Session: session(r), LineID: r.PathValue("lineId")}
	if err := h.cmdHandler.RemoveLine(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) RemoveSelected(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.RemoveSelected(r.Context(), command.RemoveSelected{Session: session(r)}); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) ClearStore(w http.ResponseWriter, r *http.Request) {
	cmd := command.ClearStore{Session: session(r), StoreID: r.PathValue("storeId")}
	if err := h.cmdHandler.ClearStore(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

// Checkout Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.cmdHandler.Checkout(r.Context(), command.Checkout{Session: session(r)})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, checkout)
}

func (h *Handlers) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	checkouts, err := h.queryHandler.ListCheckouts(r.Context(), session(r).UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkouts)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

// respondCart answers a mutation with the view as it stands afterwards.
func (h *Handlers) respondCart(w http.ResponseWriter, r *http.Request, status int) {
	view, err := h.queryHandler.CurrentCart(r.Context(), session(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, status, view)
}

func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var removal *cart.RemovalError

	switch {
	case errors.Is(err, cart.ErrSessionExpired):
		middleware.RespondSessionExpired(w)
	case errors.Is(err, cart.ErrEmptySelection):
		respondJSONError(w, cart.ErrEmptySelection.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, cart.ErrLineNotFound), errors.Is(err, cart.ErrStoreNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, command.ErrInvalidCommand), errors.Is(err, cart.ErrInvalidItem):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &removal):
		respondJSON(w, http.StatusBadGateway, map[string]any{
			"error":  removal.Error(),
			"failed": removal.Failed,
		})
	case errors.Is(err, cart.ErrNetworkFailure), errors.Is(err, command.ErrHandoffFailed):
		respondJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// session returns the caller's verified session. Routes are only reachable
// through AuthMiddleware, so it is always present.
func session(r *http.Request) auth.Session {
	if s, ok := middleware.GetSession(r.Context()); ok {
		return *s
	}
	return auth.Session{}
}
