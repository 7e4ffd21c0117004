package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tanvirrrhasan/TanvirEmart/internal/catalog"
	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/search"
	"github.com/tanvirrrhasan/TanvirEmart/internal/throttle"
)

type ProductHandler struct {
	snapshot  *catalog.Snapshot
	debouncer *throttle.Debouncer
}

func NewProductHandler(snapshot *catalog.Snapshot, debouncer *throttle.Debouncer) *ProductHandler {
	return &ProductHandler{snapshot: snapshot, debouncer: debouncer}
}

// ListProducts serves the catalog, optionally narrowed by ?category= and
// ordered by ?sort= (newest, price-low, price-high, name).
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.snapshot.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog could not be loaded")
		return
	}

	category := r.URL.Query().Get("category")
	order := catalog.SortOrder(r.URL.Query().Get("sort"))
	respondJSON(w, http.StatusOK, catalog.Filter(products, category, order))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	// force a catalog load on cold start before the lookup
	if _, err := h.snapshot.Products(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog could not be loaded")
		return
	}

	product, ok := h.snapshot.Product(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.snapshot.Categories(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "categories could not be loaded")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Search runs the full relevance ranking. Only an empty query returns the
// whole catalog unranked, matching the listing page; a query matching
// nothing returns an empty list.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.snapshot.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog could not be loaded")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondJSON(w, http.StatusOK, products)
		return
	}

	results := search.Search(query, products)
	ranked := make([]domain.Product, 0, len(results))
	for _, res := range results {
		ranked = append(ranked, res.Product)
	}
	respondJSON(w, http.StatusOK, ranked)
}

// Suggest serves the autocomplete dropdown. Keystroke bursts from the same
// session inside the quiet window get 204 and the client keeps its current
// list.
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < search.MinSuggestQuery {
		respondJSON(w, http.StatusOK, []interface{}{})
		return
	}

	if !h.debouncer.Ready(getSessionID(r.Context())) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	products, err := h.snapshot.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog could not be loaded")
		return
	}

	suggestions := search.Suggest(query, products)
	if suggestions == nil {
		suggestions = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, suggestions)
}
