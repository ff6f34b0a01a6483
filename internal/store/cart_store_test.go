package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *CartStore {
	t.Helper()
	return NewCartStore(&idgen.Sequence{}, WithClock(func() time.Time { return placedAt }))
}

func burger() domain.Candidate {
	return domain.Candidate{ID: "a", Name: "Burger", UnitPrice: 5, ImageRef: "burger.png"}
}

func fries() domain.Candidate {
	return domain.Candidate{ID: "b", Name: "Fries", UnitPrice: 3}
}

func TestAddItem_NewItem(t *testing.T) {
	s := setupStore(t)

	s.AddItem(burger())

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, domain.LineItem{ID: "a", Name: "Burger", UnitPrice: 5, Quantity: 1, ImageRef: "burger.png"}, cart[0])
}

func TestAddItem_SameIDTwice_IncrementsQuantity(t *testing.T) {
	s := setupStore(t)

	s.AddItem(domain.Candidate{ID: "x", UnitPrice: 2})
	s.AddItem(domain.Candidate{ID: "x", UnitPrice: 2})

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "x", cart[0].ID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddItem_OneLinePerDistinctID(t *testing.T) {
	s := setupStore(t)
	calls := []string{"a", "b", "a", "c", "a", "b"}

	for _, id := range calls {
		s.AddItem(domain.Candidate{ID: id, UnitPrice: 1})
	}

	cart := s.Cart()
	require.Len(t, cart, 3)
	// insertion order is display order
	assert.Equal(t, "a", cart[0].ID)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Equal(t, "b", cart[1].ID)
	assert.Equal(t, 2, cart[1].Quantity)
	assert.Equal(t, "c", cart[2].ID)
	assert.Equal(t, 1, cart[2].Quantity)
}

func TestTotals(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())
	s.AddItem(burger())
	s.AddItem(fries())

	assert.Equal(t, 13.0, s.TotalPrice())
	assert.Equal(t, 3, s.ItemCount())

	s.IncrementQuantity("b")
	assert.Equal(t, 16.0, s.TotalPrice())
	assert.Equal(t, 4, s.ItemCount())

	s.RemoveItem("a")
	assert.Equal(t, 6.0, s.TotalPrice())
	assert.Equal(t, 2, s.ItemCount())

	items, total, count := s.Summary()
	assert.Len(t, items, 1)
	assert.Equal(t, 6.0, total)
	assert.Equal(t, 2, count)
}

func TestTotals_EmptyCart(t *testing.T) {
	s := setupStore(t)
	assert.Equal(t, 0.0, s.TotalPrice())
	assert.Equal(t, 0, s.ItemCount())
	assert.Empty(t, s.Cart())
}

func TestIncrementQuantity_MissingID_NoOp(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	s.IncrementQuantity("missing")

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestDecrementQuantity_ClampsAtOne(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())
	s.AddItem(burger())

	s.DecrementQuantity("a")
	s.DecrementQuantity("a")
	s.DecrementQuantity("a")

	cart := s.Cart()
	require.Len(t, cart, 1, "decrement must never remove the item")
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestDecrementQuantity_MissingID_NoOp(t *testing.T) {
	s := setupStore(t)
	s.DecrementQuantity("missing")
	assert.Empty(t, s.Cart())
}

func TestSetQuantity(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	s.SetQuantity("a", 7)

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantity)
	assert.Equal(t, 35.0, s.TotalPrice())
}

func TestSetQuantity_NonPositive_RemovesItem(t *testing.T) {
	for _, n := range []int{0, -5} {
		s := setupStore(t)
		s.AddItem(burger())
		s.AddItem(fries())

		s.SetQuantity("a", n)

		cart := s.Cart()
		require.Len(t, cart, 1, "n=%d", n)
		assert.Equal(t, "b", cart[0].ID)
	}
}

func TestSetQuantity_MissingID_NoOp(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	s.SetQuantity("missing", 4)
	s.SetQuantity("missing", 0)

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())
	s.AddItem(fries())

	s.RemoveItem("a")
	once := s.Cart()
	s.RemoveItem("a")

	assert.Equal(t, once, s.Cart())
	require.Len(t, once, 1)
	assert.Equal(t, "b", once[0].ID)
}

func TestClearCart(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())
	s.AddItem(fries())

	s.ClearCart()

	assert.Empty(t, s.Cart())
	assert.Equal(t, 0, s.ItemCount())

	// clearing an empty cart is fine too
	s.ClearCart()
	assert.Empty(t, s.Cart())
}

func TestCart_ReturnsCopy(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	cart := s.Cart()
	cart[0].Quantity = 99

	assert.Equal(t, 1, s.Cart()[0].Quantity)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	s := setupStore(t)

	order, err := s.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, order.ID)
	assert.Empty(t, s.Orders())
	assert.Empty(t, s.Cart())
}

func TestPlaceOrder_Success(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())
	s.AddItem(burger())
	s.AddItem(fries())
	before := s.Cart()

	order, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, 13.0, order.Total)
	assert.Equal(t, before, order.Items)
	assert.Equal(t, placedAt, order.PlacedAt)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	assert.Empty(t, s.Cart())
	assert.Equal(t, 0.0, s.TotalPrice())

	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order, orders[0])
	assert.Equal(t, 13.0, orders[0].Total)
}

func TestPlaceOrder_TwiceGivesDistinctIDs(t *testing.T) {
	s := NewCartStore(idgen.NewClock(nil))

	s.AddItem(burger())
	first, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	s.AddItem(fries())
	second, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, s.Orders(), 2)
}

func TestPlaceOrder_SecondCallOnEmptyCartFails(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = s.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Len(t, s.Orders(), 1)
}

func TestPlaceOrder_CancelledContext_LeavesStateAlone(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, s.Cart(), 1)
	assert.Empty(t, s.Orders())
}

func TestPlaceOrder_SnapshotIsolatedFromLaterMutations(t *testing.T) {
	s := setupStore(t)
	s.AddItem(burger())

	order, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	s.AddItem(burger())
	s.SetQuantity("a", 10)
	order.Items[0].Quantity = 42

	stored, err := s.Order(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
	assert.Equal(t, 5.0, stored.Total)
}

func TestOrder_NotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.Order("ORD-404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPlaceOrder_ConcurrentReadersSeeConsistentCart(t *testing.T) {
	s := setupStore(t)
	for i := 0; i < 50; i++ {
		s.AddItem(burger())
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	var inconsistent bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			items, total, count := s.Summary()
			if (count != 0 && count != 50) || total != float64(count)*5 || len(items) > 1 {
				inconsistent = true
				return
			}
		}
	}()

	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)
	close(stop)
	wg.Wait()

	assert.False(t, inconsistent)
	assert.Empty(t, s.Cart())
	assert.Len(t, s.Orders(), 1)
}
