package domain

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentBkash  PaymentMethod = "bkash"
	PaymentNagad  PaymentMethod = "nagad"
	PaymentRocket PaymentMethod = "rocket"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBkash, PaymentNagad, PaymentRocket:
		return true
	}
	return false
}

// IsMobileWallet reports whether the method needs a wallet mobile number.
func (m PaymentMethod) IsMobileWallet() bool {
	switch m {
	case PaymentBkash, PaymentNagad, PaymentRocket:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Address is the structured delivery address used across orders and profiles.
type Address struct {
	Division string `json:"division" bson:"division"`
	District string `json:"district" bson:"district"`
	Upazila  string `json:"upazila" bson:"upazila"`
	Street   string `json:"street" bson:"street"`
}

// CheckoutDraft is a locally computed order proposal. Field names are the wire
// contract read back by admin views and receipts, do not rename them.
type CheckoutDraft struct {
	Items           []CartLineItem `json:"items" bson:"items"`
	Subtotal        float64        `json:"subtotal" bson:"subtotal"`
	DeliveryFee     float64        `json:"deliveryFee" bson:"deliveryFee"`
	Total           float64        `json:"total" bson:"total"`
	CustomerName    string         `json:"customerName" bson:"customerName"`
	CustomerPhone   string         `json:"customerPhone" bson:"customerPhone"`
	CustomerEmail   string         `json:"customerEmail" bson:"customerEmail"`
	DeliveryAddress string         `json:"deliveryAddress" bson:"deliveryAddress"`
	AddressDetails  Address        `json:"deliveryAddressDetails" bson:"deliveryAddressDetails"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod" bson:"paymentMethod"`
	MobileNumber    string         `json:"mobileNumber" bson:"mobileNumber"`
	OrderNotes      string         `json:"orderNotes" bson:"orderNotes"`
	Status          OrderStatus    `json:"status" bson:"status"`
	OrderNumber     string         `json:"orderNumber" bson:"orderNumber"`
}

// Order is a submitted draft. Immutable from the client's perspective once
// written; the store assigns ID and CreatedAt.
type Order struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	UserID        string    `json:"userId" bson:"userId"`
	CheckoutDraft `bson:",inline"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
