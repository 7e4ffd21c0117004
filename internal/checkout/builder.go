// Package checkout assembles order drafts from staged cart lines. Building a
// draft is pure computation; nothing is written until the draft is submitted.
package checkout

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// DefaultDeliveryFee is the flat fee of the authenticated flow, in taka.
// Deployment config may override it.
const DefaultDeliveryFee = 150

// Form carries the checkout page's fields.
type Form struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Division      string
	District      string
	Upazila       string
	Street        string
	PaymentMethod domain.PaymentMethod
	MobileNumber  string
	OrderNotes    string
}

// Builder produces drafts with a fixed delivery fee. The clock and random
// source are injectable for deterministic order numbers in tests.
type Builder struct {
	deliveryFee float64
	now         func() time.Time
	rand        *rand.Rand
}

func NewBuilder(deliveryFee float64) *Builder {
	return &Builder{
		deliveryFee: deliveryFee,
		now:         time.Now,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func NewBuilderWithClock(deliveryFee float64, now func() time.Time, seed int64) *Builder {
	return &Builder{
		deliveryFee: deliveryFee,
		now:         now,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

// DeliveryFee is the flat fee drafts will be built with.
func (b *Builder) DeliveryFee() float64 {
	return b.deliveryFee
}

// BuildDraft validates the staged lines and form and computes the order
// proposal. Checkout requires a signed-in identity; the anonymous flow is
// gone.
func (b *Builder) BuildDraft(selected []domain.CartLineItem, form Form, userID string) (*domain.CheckoutDraft, error) {
	if userID == "" {
		return nil, invalid("", "sign in to place an order")
	}
	if len(selected) == 0 {
		return nil, invalid("items", "no items selected for checkout")
	}
	if form.CustomerName == "" {
		return nil, invalid("customerName", "name is required")
	}
	if form.CustomerPhone == "" {
		return nil, invalid("customerPhone", "phone is required")
	}
	if !form.PaymentMethod.Valid() {
		return nil, invalid("paymentMethod", "unknown payment method")
	}
	if form.PaymentMethod.IsMobileWallet() && form.MobileNumber == "" {
		return nil, invalid("mobileNumber", "mobile number is required for mobile banking payments")
	}

	var subtotal float64
	items := make([]domain.CartLineItem, len(selected))
	for i, li := range selected {
		items[i] = li
		subtotal += li.LineTotal()
	}

	address := domain.Address{
		Division: form.Division,
		District: form.District,
		Upazila:  form.Upazila,
		Street:   form.Street,
	}

	return &domain.CheckoutDraft{
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     b.deliveryFee,
		Total:           subtotal + b.deliveryFee,
		CustomerName:    form.CustomerName,
		CustomerPhone:   form.CustomerPhone,
		CustomerEmail:   form.CustomerEmail,
		DeliveryAddress: formatAddress(address),
		AddressDetails:  address,
		PaymentMethod:   form.PaymentMethod,
		MobileNumber:    form.MobileNumber,
		OrderNotes:      form.OrderNotes,
		Status:          domain.OrderStatusPending,
		OrderNumber:     b.orderNumber(),
	}, nil
}

func formatAddress(a domain.Address) string {
	return fmt.Sprintf("Street: %s, Upazila: %s, District: %s, Division: %s",
		a.Street, a.Upazila, a.District, a.Division)
}

// orderNumber is a display/reference code, not a primary key: EM + the last
// six digits of the millisecond timestamp + a zero-padded three-digit random
// suffix. Collisions are improbable, not impossible; the document store
// assigns the true identity.
func (b *Builder) orderNumber() string {
	millis := fmt.Sprintf("%d", b.now().UnixMilli())
	return fmt.Sprintf("EM%s%03d", millis[len(millis)-6:], b.rand.Intn(1000))
}
