package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
	"github.com/tanvirrrhasan/TanvirEmart/internal/checkout"
	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
	"github.com/tanvirrrhasan/TanvirEmart/internal/orders"
	"github.com/tanvirrrhasan/TanvirEmart/internal/relay"
)

type ordersRepoMock struct {
	mu       sync.Mutex
	inserted []*domain.Order
}

func (m *ordersRepoMock) Insert(_ context.Context, order *domain.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, order)
	return "order-1", nil
}

func (m *ordersRepoMock) ListByUser(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

type profilesRepoMock struct{}

func (profilesRepoMock) RecordOrder(context.Context, string, *domain.CheckoutDraft) error {
	return nil
}
func (profilesRepoMock) Get(context.Context, string) (*domain.UserProfile, error) { return nil, nil }
func (profilesRepoMock) UpdateFields(context.Context, string, map[string]any) error {
	return nil
}

type checkoutFixture struct {
	handler *CheckoutHandler
	cart    *CartHandler
	repo    *ordersRepoMock
	slots   kv.Store
}

func newCheckoutFixture() *checkoutFixture {
	slots := kv.NewMemoryStore()
	resolver := resolverMock{
		"p1": {ID: "p1", Name: "Phone Case", Price: 250},
		"p2": {ID: "p2", Name: "Phone Charger", Price: 450},
	}
	nav := relay.New(slots)
	repo := &ordersRepoMock{}
	svc := orders.NewService(repo, profilesRepoMock{}, nav)
	builder := checkout.NewBuilder(150)

	return &checkoutFixture{
		handler: NewCheckoutHandler(slots, resolver, nav, builder, svc),
		cart:    NewCartHandler(slots, resolver),
		repo:    repo,
		slots:   slots,
	}
}

func signedInRequest(method, target string, body interface{}, sessionID string) *http.Request {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	request := httptest.NewRequest(method, target, bytes.NewReader(payload))
	request = withSession(request, sessionID)
	ctx := context.WithValue(request.Context(), "identity", &auth.Identity{UID: "u1", Name: "Rahim"})
	return request.WithContext(ctx)
}

func submitBody(source string) map[string]interface{} {
	return map[string]interface{}{
		"source": source,
		"items": []map[string]interface{}{
			{"productId": "p1", "selectedColor": "Red", "quantity": 2},
		},
		"customerName":  "Rahim",
		"customerPhone": "+8801712345678",
		"division":      "Dhaka",
		"district":      "Dhaka",
		"upazila":       "Savar",
		"street":        "House 12, Road 3",
		"paymentMethod": "cash",
	}
}

func TestStage_BuyNow(t *testing.T) {
	f := newCheckoutFixture()

	body := StageRequestDTO{Source: relay.SourceBuyNow}
	payload, _ := json.Marshal(map[string]interface{}{
		"source": body.Source,
		"item":   map[string]interface{}{"productId": "p2", "quantity": 1},
	})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(payload)), "s1")

	f.handler.Stage(recorder, request)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("Expected status code %d, got %d", http.StatusNoContent, recorder.Code)
	}

	contextRecorder := httptest.NewRecorder()
	f.handler.Context(contextRecorder, withSession(httptest.NewRequest("GET", "/", nil), "s1"))

	var response CheckoutContextDTO
	if err := json.NewDecoder(contextRecorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Source != relay.SourceBuyNow {
		t.Errorf("Expected buy-now source, got %s", response.Source)
	}
	if len(response.Items) != 1 || response.Items[0].UnitPrice != 450 {
		t.Errorf("Expected staged charger line, got %+v", response.Items)
	}
	if response.Total != 600 {
		t.Errorf("Expected total 600 (450 + 150 fee), got %v", response.Total)
	}
}

func TestStage_CartWithEmptySelection(t *testing.T) {
	f := newCheckoutFixture()

	payload, _ := json.Marshal(map[string]string{"source": relay.SourceCart})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(payload)), "s1")

	f.handler.Stage(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestContext_ConsumedOnRead(t *testing.T) {
	f := newCheckoutFixture()

	payload, _ := json.Marshal(map[string]interface{}{
		"source": relay.SourceBuyNow,
		"item":   map[string]interface{}{"productId": "p1"},
	})
	f.handler.Stage(httptest.NewRecorder(), withSession(httptest.NewRequest("POST", "/", bytes.NewReader(payload)), "s1"))

	first := httptest.NewRecorder()
	f.handler.Context(first, withSession(httptest.NewRequest("GET", "/", nil), "s1"))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected first read to succeed, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	f.handler.Context(second, withSession(httptest.NewRequest("GET", "/", nil), "s1"))
	if second.Code != http.StatusConflict {
		t.Errorf("Expected second read to get 409, got %d", second.Code)
	}
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	f := newCheckoutFixture()

	payload, _ := json.Marshal(submitBody(relay.SourceCart))
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", bytes.NewReader(payload)), "s1")

	f.handler.Submit(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newCheckoutFixture()

	recorder := httptest.NewRecorder()
	f.handler.Submit(recorder, signedInRequest("POST", "/", submitBody(relay.SourceBuyNow), "s1"))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	var result orders.Result
	if err := json.NewDecoder(recorder.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.OrderID != "order-1" {
		t.Errorf("Expected order-1, got %s", result.OrderID)
	}

	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	if len(f.repo.inserted) != 1 {
		t.Fatalf("Expected one persisted order, got %d", len(f.repo.inserted))
	}
	order := f.repo.inserted[0]
	if order.Subtotal != 500 || order.Total != 650 {
		t.Errorf("Expected subtotal 500 total 650, got %v / %v", order.Subtotal, order.Total)
	}
	if order.UserID != "u1" {
		t.Errorf("Expected order owned by u1, got %s", order.UserID)
	}
}

func TestSubmit_WalletWithoutNumberRejected(t *testing.T) {
	f := newCheckoutFixture()

	body := submitBody(relay.SourceBuyNow)
	body["paymentMethod"] = "bkash"
	recorder := httptest.NewRecorder()
	f.handler.Submit(recorder, signedInRequest("POST", "/", body, "s1"))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestSubmit_FromCartRemovesPurchasedLines(t *testing.T) {
	f := newCheckoutFixture()

	// cart holds a red case and a charger; only the red case is purchased
	postJSON(t, f.cart.AddItem, "s1", AddItemRequestDTO{ProductID: "p1", Color: "Red"})
	postJSON(t, f.cart.AddItem, "s1", AddItemRequestDTO{ProductID: "p2"})

	recorder := httptest.NewRecorder()
	f.handler.Submit(recorder, signedInRequest("POST", "/", submitBody(relay.SourceCart), "s1"))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	cartRecorder := httptest.NewRecorder()
	f.cart.GetCart(cartRecorder, withSession(httptest.NewRequest("GET", "/", nil), "s1"))

	var cart domain.Cart
	if err := json.NewDecoder(cartRecorder.Body).Decode(&cart); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Errorf("Expected only the charger left in the cart, got %+v", cart.Items)
	}
}
