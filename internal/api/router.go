package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/api/middleware"
	"github.com/example/storefront-cart/internal/auth"
)

func NewRouter(handlers *Handlers, verifier *auth.SessionVerifier, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	protect := middleware.AuthMiddleware(verifier)
	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	// Ops
	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Cart
	route("GET /cart", handlers.GetCart)
	route("POST /cart/refresh", handlers.RefreshCart)
	route("POST /cart/stores/{storeId}/items", handlers.AddItem)
	route("PUT /cart/stores/{storeId}/selection", handlers.SelectStore)
	route("DELETE /cart/stores/{storeId}", handlers.ClearStore)
	route("POST /cart/lines/{lineId}/select", handlers.SelectLine)
	route("PUT /cart/lines/{lineId}/quantity", handlers.SetQuantity)
	route("DELETE /cart/lines/{lineId}", handlers.RemoveLine)
	route("PUT /cart/selection", handlers.SelectAll)
	route("DELETE /cart/selection", handlers.RemoveSelected)

	// Checkout
	route("POST /cart/checkout", handlers.Checkout)
	route("GET /checkouts", handlers.ListCheckouts)

	return middleware.RequestLogger(logger)(mux)
}
