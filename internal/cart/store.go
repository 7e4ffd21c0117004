// Package cart owns the shopper's line items. It is the only writer of cart
// state; everything else reads snapshots.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

// ErrUnknownProduct means addItem was asked for a product the current catalog
// snapshot cannot resolve.
var ErrUnknownProduct = errors.New("product not in catalog")

// ProductResolver looks a product up in the currently loaded catalog.
type ProductResolver interface {
	Product(id string) (domain.Product, bool)
}

// Store is the durable per-session cart. Every mutation persists the full
// cart synchronously before returning; concurrent tabs race with last write
// wins, there is no merge.
type Store struct {
	slots    kv.Store
	resolver ProductResolver
	key      string
}

func NewStore(slots kv.Store, resolver ProductResolver, sessionID string) *Store {
	return &Store{
		slots:    slots,
		resolver: resolver,
		key:      cartKey(sessionID),
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Variant carries the shopper's color/size choices for a line.
type Variant struct {
	Color string
	Size  string
}

// AddItem increments an existing line with the same product+variant identity,
// or appends a fresh line with quantity 1 and selected on.
func (s *Store) AddItem(ctx context.Context, productID string, variant Variant) error {
	product, ok := s.resolver.Product(productID)
	if !ok {
		return ErrUnknownProduct
	}

	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	key := domain.VariantKey{ProductID: productID, Color: variant.Color, Size: variant.Size}
	if i := indexOf(cart.Items, key); i >= 0 {
		cart.Items[i].Quantity++
	} else {
		cart.Items = append(cart.Items, domain.CartLineItem{
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.Price,
			ImageURL:      product.FirstImage(),
			Quantity:      1,
			SelectedColor: variant.Color,
			SelectedSize:  variant.Size,
			Selected:      true,
		})
	}
	return s.save(ctx, cart)
}

// SetQuantity adds delta (signed) to the line's quantity. A result of zero or
// less removes the line entirely. Unknown keys are a silent no-op.
func (s *Store) SetQuantity(ctx context.Context, key domain.VariantKey, delta int) error {
	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(cart.Items, key)
	if i < 0 {
		return nil
	}
	cart.Items[i].Quantity += delta
	if cart.Items[i].Quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	}
	return s.save(ctx, cart)
}

// RemoveItem removes exactly the line matching the full variant identity, so
// removing one color of a product leaves its other colors alone. Unknown keys
// are a silent no-op.
func (s *Store) RemoveItem(ctx context.Context, key domain.VariantKey) error {
	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(cart.Items, key)
	if i < 0 {
		return nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	return s.save(ctx, cart)
}

// ToggleSelected flips the line's checkout-eligibility flag.
func (s *Store) ToggleSelected(ctx context.Context, key domain.VariantKey) error {
	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(cart.Items, key)
	if i < 0 {
		return nil
	}
	cart.Items[i].Selected = !cart.Items[i].Selected
	return s.save(ctx, cart)
}

// Snapshot returns the current cart contents. The returned value is a copy;
// mutating it does not touch the store.
func (s *Store) Snapshot(ctx context.Context) (domain.Cart, error) {
	return s.load(ctx)
}

// Reconcile removes only the lines whose identities were purchased. Lines
// added after checkout began survive.
func (s *Store) Reconcile(ctx context.Context, purchased []domain.VariantKey) error {
	cart, err := s.load(ctx)
	if err != nil {
		return err
	}

	bought := make(map[domain.VariantKey]bool, len(purchased))
	for _, k := range purchased {
		bought[k] = true
	}

	kept := cart.Items[:0]
	for _, li := range cart.Items {
		if !bought[li.Key()] {
			kept = append(kept, li)
		}
	}
	cart.Items = kept
	return s.save(ctx, cart)
}

func indexOf(items []domain.CartLineItem, key domain.VariantKey) int {
	for i, li := range items {
		if li.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

func (s *Store) save(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
