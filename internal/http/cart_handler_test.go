package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

type resolverMock map[string]domain.Product

func (m resolverMock) Product(id string) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func newCartHandler() *CartHandler {
	return NewCartHandler(kv.NewMemoryStore(), resolverMock{
		"p1": {ID: "p1", Name: "Phone Case", Price: 250},
		"p2": {ID: "p2", Name: "Phone Charger", Price: 450},
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(payload)), sessionID)
	handler(recorder, request)
	return recorder
}

func TestAddItem_Success(t *testing.T) {
	handler := newCartHandler()

	recorder := postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1", Color: "Red"})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var cart domain.Cart
	if err := json.NewDecoder(recorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 1 || !cart.Items[0].Selected {
		t.Errorf("Expected fresh line qty 1 selected, got %+v", cart.Items[0])
	}
	if cart.Items[0].UnitPrice != 250 {
		t.Errorf("Expected catalog price 250, got %v", cart.Items[0].UnitPrice)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := newCartHandler()

	recorder := postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "ghost"})

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestAddItem_SameVariantIncrements(t *testing.T) {
	handler := newCartHandler()

	postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1", Color: "Red"})
	recorder := postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1", Color: "Red"})

	var cart domain.Cart
	if err := json.NewDecoder(recorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("Expected one line with qty 2, got %+v", cart.Items)
	}
}

func TestUpdateQuantity_DecrementToZeroRemoves(t *testing.T) {
	handler := newCartHandler()
	postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1"})

	recorder := postJSON(t, handler.UpdateQuantity, "s1", LineRequestDTO{ProductID: "p1", Delta: -1})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	var cart domain.Cart
	if err := json.NewDecoder(recorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Expected empty cart, got %+v", cart.Items)
	}
}

func TestUpdateQuantity_ZeroDeltaRejected(t *testing.T) {
	handler := newCartHandler()

	recorder := postJSON(t, handler.UpdateQuantity, "s1", LineRequestDTO{ProductID: "p1", Delta: 0})

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestToggleSelected(t *testing.T) {
	handler := newCartHandler()
	postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1"})

	recorder := postJSON(t, handler.ToggleSelected, "s1", LineRequestDTO{ProductID: "p1"})

	var cart domain.Cart
	if err := json.NewDecoder(recorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if cart.Items[0].Selected {
		t.Errorf("Expected line deselected after toggle")
	}
}

func TestGetCart_SessionsIsolated(t *testing.T) {
	handler := newCartHandler()
	postJSON(t, handler.AddItem, "s1", AddItemRequestDTO{ProductID: "p1"})

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, withSession(httptest.NewRequest("GET", "/", nil), "s2"))

	var cart domain.Cart
	if err := json.NewDecoder(recorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Expected other session's cart empty, got %+v", cart.Items)
	}
}
