package http

import (
	"net/http"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/orders"
)

type OrdersHandler struct {
	orders *orders.Service
}

func NewOrdersHandler(svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{orders: svc}
}

// History serves the signed-in user's orders, newest first.
func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	status := domain.OrderStatus(r.URL.Query().Get("status"))
	list, err := h.orders.History(r.Context(), identity.UID, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order history")
		return
	}
	respondJSON(w, http.StatusOK, list)
}
