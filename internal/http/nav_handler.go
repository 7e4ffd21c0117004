package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tanvirrrhasan/TanvirEmart/internal/relay"
)

type NavHandler struct {
	nav *relay.Relay
}

func NewNavHandler(nav *relay.Relay) *NavHandler {
	return &NavHandler{nav: nav}
}

type ScrollRequestDTO struct {
	Page   string `json:"page"`
	Offset int    `json:"offset"`
}

func (h *NavHandler) SaveScroll(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.nav.SaveScroll(r.Context(), getSessionID(r.Context()), req.Page, req.Offset); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_page", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NavHandler) GetScroll(w http.ResponseWriter, r *http.Request) {
	offset, err := h.nav.Scroll(r.Context(), getSessionID(r.Context()), r.URL.Query().Get("page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_page", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"offset": offset})
}

type ReturnToRequestDTO struct {
	Path string `json:"path"`
}

func (h *NavHandler) SetReturnTo(w http.ResponseWriter, r *http.Request) {
	var req ReturnToRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	if err := h.nav.SetReturnTo(r.Context(), getSessionID(r.Context()), req.Path); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save destination")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TakeReturnTo consumes the post-sign-in destination. 404 means there was
// none and the client goes home.
func (h *NavHandler) TakeReturnTo(w http.ResponseWriter, r *http.Request) {
	path, err := h.nav.TakeReturnTo(r.Context(), getSessionID(r.Context()))
	if errors.Is(err, relay.ErrEmpty) {
		respondError(w, http.StatusNotFound, "not_found", "no saved destination")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to read destination")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (h *NavHandler) SetProductReturnTo(w http.ResponseWriter, r *http.Request) {
	var req ReturnToRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	if err := h.nav.SetProductReturnTo(r.Context(), getSessionID(r.Context()), req.Path); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save destination")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NavHandler) TakeProductReturnTo(w http.ResponseWriter, r *http.Request) {
	path, err := h.nav.TakeProductReturnTo(r.Context(), getSessionID(r.Context()))
	if errors.Is(err, relay.ErrEmpty) {
		respondError(w, http.StatusNotFound, "not_found", "no saved destination")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to read destination")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}
