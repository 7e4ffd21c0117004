// Package relay passes short-lived navigation context between pages: where a
// checkout was launched from, which lines were staged for it, where to return
// after sign-in, and saved scroll offsets. Slots are consumed on read so stale
// context never leaks into an unrelated visit.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

// Checkout launch sources.
const (
	SourceCart   = "cart"
	SourceBuyNow = "buy-now"
)

const (
	slotCheckoutSource   = "checkoutSource"
	slotCheckoutLines    = "cartForCheckout"
	slotReturnTo         = "originalReferrer"
	slotProductReturnTo  = "productOriginalReferrer"
	slotMainScroll       = "mainPageScrollY"
	slotProductsScroll   = "productListPageScrollY"
)

// ErrEmpty is returned when a slot holds nothing for the session.
var ErrEmpty = errors.New("relay slot empty")

// Relay stores navigation context per session. Scroll offsets persist across
// reads; everything else is consume-on-read.
type Relay struct {
	store kv.Store
}

func New(store kv.Store) *Relay {
	return &Relay{store: store}
}

func (r *Relay) key(sessionID, slot string) string {
	return fmt.Sprintf("relay:%s:%s", sessionID, slot)
}

// StageCheckout records the launch source and the exact lines the checkout
// was opened with. Buy-now stages a single line without touching the cart.
func (r *Relay) StageCheckout(ctx context.Context, sessionID, source string, lines []domain.CartLineItem) error {
	if source != SourceCart && source != SourceBuyNow {
		return fmt.Errorf("unknown checkout source %q", source)
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode checkout lines: %w", err)
	}
	if err := r.store.Set(ctx, r.key(sessionID, slotCheckoutSource), []byte(source)); err != nil {
		return fmt.Errorf("stage checkout source: %w", err)
	}
	if err := r.store.Set(ctx, r.key(sessionID, slotCheckoutLines), payload); err != nil {
		return fmt.Errorf("stage checkout lines: %w", err)
	}
	return nil
}

// TakeCheckout consumes the staged source and lines. A checkout page loaded
// without a staged context gets ErrEmpty and bounces the shopper back.
func (r *Relay) TakeCheckout(ctx context.Context, sessionID string) (string, []domain.CartLineItem, error) {
	raw, err := r.store.Take(ctx, r.key(sessionID, slotCheckoutSource))
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil, ErrEmpty
	}
	if err != nil {
		return "", nil, fmt.Errorf("take checkout source: %w", err)
	}
	source := string(raw)

	payload, err := r.store.Take(ctx, r.key(sessionID, slotCheckoutLines))
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil, ErrEmpty
	}
	if err != nil {
		return "", nil, fmt.Errorf("take checkout lines: %w", err)
	}

	var lines []domain.CartLineItem
	if err := json.Unmarshal(payload, &lines); err != nil {
		return "", nil, fmt.Errorf("decode checkout lines: %w", err)
	}
	return source, lines, nil
}

// ClearCheckout drops any staged checkout context without reading it, used
// when the shopper abandons the flow.
func (r *Relay) ClearCheckout(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, r.key(sessionID, slotCheckoutSource)); err != nil {
		return err
	}
	return r.store.Delete(ctx, r.key(sessionID, slotCheckoutLines))
}

// SetReturnTo remembers where to send the shopper after sign-in.
func (r *Relay) SetReturnTo(ctx context.Context, sessionID, path string) error {
	return r.store.Set(ctx, r.key(sessionID, slotReturnTo), []byte(path))
}

// TakeReturnTo consumes the saved destination, ErrEmpty when none was set.
func (r *Relay) TakeReturnTo(ctx context.Context, sessionID string) (string, error) {
	return r.takeString(ctx, sessionID, slotReturnTo)
}

// SetProductReturnTo remembers the page a product view was opened from, so
// closing the product goes back there instead of to the listing.
func (r *Relay) SetProductReturnTo(ctx context.Context, sessionID, path string) error {
	return r.store.Set(ctx, r.key(sessionID, slotProductReturnTo), []byte(path))
}

func (r *Relay) TakeProductReturnTo(ctx context.Context, sessionID string) (string, error) {
	return r.takeString(ctx, sessionID, slotProductReturnTo)
}

func (r *Relay) takeString(ctx context.Context, sessionID, slot string) (string, error) {
	raw, err := r.store.Take(ctx, r.key(sessionID, slot))
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("take %s: %w", slot, err)
	}
	return string(raw), nil
}

// SaveScroll records the scroll offset of a listing page. Offsets survive
// reads; the same position is restored every time the shopper returns.
func (r *Relay) SaveScroll(ctx context.Context, sessionID, page string, offset int) error {
	slot, err := scrollSlot(page)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, r.key(sessionID, slot), []byte(strconv.Itoa(offset)))
}

// Scroll returns the saved offset for a page, zero when none was recorded.
func (r *Relay) Scroll(ctx context.Context, sessionID, page string) (int, error) {
	slot, err := scrollSlot(page)
	if err != nil {
		return 0, err
	}
	raw, err := r.store.Get(ctx, r.key(sessionID, slot))
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", slot, err)
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, nil
	}
	return offset, nil
}

func scrollSlot(page string) (string, error) {
	switch page {
	case "main":
		return slotMainScroll, nil
	case "products":
		return slotProductsScroll, nil
	default:
		return "", fmt.Errorf("unknown scroll page %q", page)
	}
}
