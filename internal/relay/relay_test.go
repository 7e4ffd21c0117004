package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

func newTestRelay() *Relay {
	return New(kv.NewMemoryStore())
}

func TestStageCheckout_TakeConsumes(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	lines := []domain.CartLineItem{
		{ProductID: "p1", Name: "Phone Case", UnitPrice: 250, Quantity: 2, Selected: true},
	}

	require.NoError(t, r.StageCheckout(ctx, "s1", SourceBuyNow, lines))

	source, got, err := r.TakeCheckout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, SourceBuyNow, source)
	assert.Equal(t, lines, got)

	// second read finds nothing
	_, _, err = r.TakeCheckout(ctx, "s1")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStageCheckout_RejectsUnknownSource(t *testing.T) {
	r := newTestRelay()
	err := r.StageCheckout(context.Background(), "s1", "wishlist", nil)
	assert.Error(t, err)
}

func TestTakeCheckout_EmptyWithoutStaging(t *testing.T) {
	r := newTestRelay()
	_, _, err := r.TakeCheckout(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestClearCheckout(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.StageCheckout(ctx, "s1", SourceCart, nil))

	require.NoError(t, r.ClearCheckout(ctx, "s1"))

	_, _, err := r.TakeCheckout(ctx, "s1")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCheckout_SessionsIsolated(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.StageCheckout(ctx, "s1", SourceCart, nil))

	_, _, err := r.TakeCheckout(ctx, "s2")
	assert.ErrorIs(t, err, ErrEmpty)

	source, _, err := r.TakeCheckout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, SourceCart, source)
}

func TestReturnTo_ConsumedOnRead(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.SetReturnTo(ctx, "s1", "/checkout"))

	path, err := r.TakeReturnTo(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/checkout", path)

	_, err = r.TakeReturnTo(ctx, "s1")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestProductReturnTo_IndependentOfReturnTo(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.SetReturnTo(ctx, "s1", "/checkout"))
	require.NoError(t, r.SetProductReturnTo(ctx, "s1", "/search?q=case"))

	path, err := r.TakeProductReturnTo(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/search?q=case", path)

	path, err = r.TakeReturnTo(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/checkout", path)
}

func TestScroll_SurvivesReads(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.SaveScroll(ctx, "s1", "main", 1480))

	for i := 0; i < 2; i++ {
		offset, err := r.Scroll(ctx, "s1", "main")
		require.NoError(t, err)
		assert.Equal(t, 1480, offset)
	}
}

func TestScroll_ZeroWhenUnset(t *testing.T) {
	r := newTestRelay()
	offset, err := r.Scroll(context.Background(), "s1", "products")
	require.NoError(t, err)
	assert.Zero(t, offset)
}

func TestScroll_PagesIndependent(t *testing.T) {
	r := newTestRelay()
	ctx := context.Background()
	require.NoError(t, r.SaveScroll(ctx, "s1", "main", 100))
	require.NoError(t, r.SaveScroll(ctx, "s1", "products", 900))

	offset, err := r.Scroll(ctx, "s1", "main")
	require.NoError(t, err)
	assert.Equal(t, 100, offset)
}

func TestScroll_UnknownPage(t *testing.T) {
	r := newTestRelay()
	_, err := r.Scroll(context.Background(), "s1", "profile")
	assert.Error(t, err)
}
