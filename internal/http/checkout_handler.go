package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tanvirrrhasan/TanvirEmart/internal/cart"
	"github.com/tanvirrrhasan/TanvirEmart/internal/checkout"
	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
	"github.com/tanvirrrhasan/TanvirEmart/internal/orders"
	"github.com/tanvirrrhasan/TanvirEmart/internal/relay"
)

type CheckoutHandler struct {
	slots    kv.Store
	resolver cart.ProductResolver
	nav      *relay.Relay
	builder  *checkout.Builder
	orders   *orders.Service
}

func NewCheckoutHandler(slots kv.Store, resolver cart.ProductResolver, nav *relay.Relay, builder *checkout.Builder, svc *orders.Service) *CheckoutHandler {
	return &CheckoutHandler{
		slots:    slots,
		resolver: resolver,
		nav:      nav,
		builder:  builder,
		orders:   svc,
	}
}

type StageRequestDTO struct {
	Source string `json:"source"`
	Item   *struct {
		ProductID string `json:"productId"`
		Color     string `json:"color"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	} `json:"item,omitempty"`
}

type CheckoutContextDTO struct {
	Source      string                `json:"source"`
	Items       []domain.CartLineItem `json:"items"`
	Subtotal    float64               `json:"subtotal"`
	DeliveryFee float64               `json:"deliveryFee"`
	Total       float64               `json:"total"`
}

type SubmitRequestDTO struct {
	Source string `json:"source"`
	Items  []struct {
		ProductID string `json:"productId"`
		Color     string `json:"selectedColor"`
		Size      string `json:"selectedSize"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
	Division      string `json:"division"`
	District      string `json:"district"`
	Upazila       string `json:"upazila"`
	Street        string `json:"street"`
	PaymentMethod string `json:"paymentMethod"`
	MobileNumber  string `json:"mobileNumber"`
	OrderNotes    string `json:"orderNotes"`
}

// Stage records what the checkout page should be opened with. From the cart
// it stages the selected lines; buy-now stages a single line without touching
// the cart.
func (h *CheckoutHandler) Stage(w http.ResponseWriter, r *http.Request) {
	var req StageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(r.Context())
	var lines []domain.CartLineItem

	switch req.Source {
	case relay.SourceCart:
		snapshot, err := cart.NewStore(h.slots, h.resolver, sessionID).Snapshot(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
			return
		}
		lines = snapshot.SelectedLines()
		if len(lines) == 0 {
			respondError(w, http.StatusBadRequest, "empty_selection", "select at least one item to checkout")
			return
		}
	case relay.SourceBuyNow:
		if req.Item == nil || req.Item.ProductID == "" {
			respondError(w, http.StatusBadRequest, "invalid_request", "buy-now requires an item")
			return
		}
		line, ok := h.resolveLine(req.Item.ProductID, req.Item.Color, req.Item.Size, req.Item.Quantity)
		if !ok {
			respondError(w, http.StatusNotFound, "not_found", "product not in catalog")
			return
		}
		lines = []domain.CartLineItem{line}
	default:
		respondError(w, http.StatusBadRequest, "invalid_source", "source must be cart or buy-now")
		return
	}

	if err := h.nav.StageCheckout(r.Context(), sessionID, req.Source, lines); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to stage checkout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Context hands the staged lines to the checkout page and consumes them. A
// page load without a staged checkout gets 409 and bounces back.
func (h *CheckoutHandler) Context(w http.ResponseWriter, r *http.Request) {
	source, lines, err := h.nav.TakeCheckout(r.Context(), getSessionID(r.Context()))
	if errors.Is(err, relay.ErrEmpty) {
		respondError(w, http.StatusConflict, "no_checkout", "no checkout in progress")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load checkout context")
		return
	}

	var subtotal float64
	for _, li := range lines {
		subtotal += li.LineTotal()
	}
	fee := h.builder.DeliveryFee()
	respondJSON(w, http.StatusOK, CheckoutContextDTO{
		Source:      source,
		Items:       lines,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	})
}

// Cancel drops a staged checkout the shopper abandoned.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.nav.ClearCheckout(r.Context(), getSessionID(r.Context())); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear checkout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit builds the order draft and runs the submission pipeline. Prices are
// re-resolved from the catalog, the client only names products and counts.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to place an order")
		return
	}

	var req SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	selected := make([]domain.CartLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		line, ok := h.resolveLine(item.ProductID, item.Color, item.Size, item.Quantity)
		if !ok {
			respondError(w, http.StatusBadRequest, "not_found", "product not in catalog")
			return
		}
		selected = append(selected, line)
	}

	form := checkout.Form{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Division:      req.Division,
		District:      req.District,
		Upazila:       req.Upazila,
		Street:        req.Street,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		MobileNumber:  req.MobileNumber,
		OrderNotes:    req.OrderNotes,
	}

	draft, err := h.builder.BuildDraft(selected, form, identity.UID)
	var validation *checkout.ValidationError
	if errors.As(err, &validation) {
		respondError(w, http.StatusBadRequest, "validation_failed", validation.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build order")
		return
	}

	sessionID := getSessionID(r.Context())
	var cleaner orders.CartCleaner
	if req.Source == relay.SourceCart {
		cleaner = cart.NewStore(h.slots, h.resolver, sessionID)
	}

	order := &domain.Order{UserID: identity.UID, CheckoutDraft: *draft}
	result, err := h.orders.Submit(r.Context(), sessionID, order, cleaner)
	if err != nil {
		respondError(w, http.StatusBadGateway, "submission_failed", "order could not be placed, please try again")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) resolveLine(productID, color, size string, quantity int) (domain.CartLineItem, bool) {
	product, ok := h.resolver.Product(productID)
	if !ok {
		return domain.CartLineItem{}, false
	}
	if quantity < 1 {
		quantity = 1
	}
	return domain.CartLineItem{
		ProductID:     product.ID,
		Name:          product.Name,
		UnitPrice:     product.Price,
		ImageURL:      product.FirstImage(),
		Quantity:      quantity,
		SelectedColor: color,
		SelectedSize:  size,
		Selected:      true,
	}, true
}
