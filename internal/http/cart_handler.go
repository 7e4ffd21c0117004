package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tanvirrrhasan/TanvirEmart/internal/cart"
	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

type CartHandler struct {
	slots    kv.Store
	resolver cart.ProductResolver
}

func NewCartHandler(slots kv.Store, resolver cart.ProductResolver) *CartHandler {
	return &CartHandler{slots: slots, resolver: resolver}
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return cart.NewStore(h.slots, h.resolver, getSessionID(r.Context()))
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type LineRequestDTO struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Delta     int    `json:"delta"`
}

func (dto LineRequestDTO) key() domain.VariantKey {
	return domain.VariantKey{ProductID: dto.ProductID, Color: dto.Color, Size: dto.Size}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store(r).Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	store := h.store(r)
	err := store.AddItem(r.Context(), req.ProductID, cart.Variant{Color: req.Color, Size: req.Size})
	if errors.Is(err, cart.ErrUnknownProduct) {
		respondError(w, http.StatusNotFound, "not_found", "product not in catalog")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	snapshot, err := store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// UpdateQuantity applies a signed delta to a line. A delta driving the
// quantity to zero or below removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req LineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "delta must be non-zero")
		return
	}

	store := h.store(r)
	if err := store.SetQuantity(r.Context(), req.key(), req.Delta); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	h.respondSnapshot(w, r, store)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req LineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.store(r)
	if err := store.RemoveItem(r.Context(), req.key()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	h.respondSnapshot(w, r, store)
}

func (h *CartHandler) ToggleSelected(w http.ResponseWriter, r *http.Request) {
	var req LineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.store(r)
	if err := store.ToggleSelected(r.Context(), req.key()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	h.respondSnapshot(w, r, store)
}

func (h *CartHandler) respondSnapshot(w http.ResponseWriter, r *http.Request, store *cart.Store) {
	snapshot, err := store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}
