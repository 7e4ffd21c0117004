package domain

import "time"

// UserProfile is a convenience cache over order history. Orders are the source
// of truth; TotalOrders and LastAddress are overwritten on every completed
// order, last write wins.
type UserProfile struct {
	Name          string    `json:"name" bson:"name"`
	Phone         string    `json:"phone" bson:"phone"`
	Email         string    `json:"email" bson:"email"`
	Gender        string    `json:"gender,omitempty" bson:"gender,omitempty"`
	TotalOrders   int       `json:"totalOrders" bson:"totalOrders"`
	LastOrderDate time.Time `json:"lastOrderDate,omitempty" bson:"lastOrderDate,omitempty"`
	LastAddress   *Address  `json:"lastAddress,omitempty" bson:"lastAddress,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
