package domain

// VariantKey is the identity of a cart line. Two lines with the same product
// but different color/size selections are distinct lines.
type VariantKey struct {
	ProductID string
	Color     string
	Size      string
}

type CartLineItem struct {
	ProductID     string  `json:"productId" bson:"productId"`
	Name          string  `json:"name" bson:"name"`
	UnitPrice     float64 `json:"unitPrice" bson:"unitPrice"`
	ImageURL      string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	SelectedColor string  `json:"selectedColor,omitempty" bson:"selectedColor,omitempty"`
	SelectedSize  string  `json:"selectedSize,omitempty" bson:"selectedSize,omitempty"`
	Selected      bool    `json:"selected" bson:"selected"`
}

func (li CartLineItem) Key() VariantKey {
	return VariantKey{
		ProductID: li.ProductID,
		Color:     li.SelectedColor,
		Size:      li.SelectedSize,
	}
}

func (li CartLineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Cart is the set of lines a shopper intends to buy, one line per VariantKey.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// SelectedLines returns the lines eligible for checkout.
func (c Cart) SelectedLines() []CartLineItem {
	var selected []CartLineItem
	for _, li := range c.Items {
		if li.Selected {
			selected = append(selected, li)
		}
	}
	return selected
}

// SelectedTotal sums unitPrice * quantity over selected lines only.
func (c Cart) SelectedTotal() float64 {
	var total float64
	for _, li := range c.Items {
		if li.Selected {
			total += li.LineTotal()
		}
	}
	return total
}

func (c Cart) TotalQuantity() int {
	var n int
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}
