package store

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/idgen"
)

// CartStore owns one session's cart and the orders placed from it.
// The cart and the order history are only touched under mu.
type CartStore struct {
	mu     sync.RWMutex
	cart   []domain.LineItem
	orders []domain.Order

	ids idgen.Generator
	now func() time.Time
}

type Option func(*CartStore)

// WithClock overrides the time source used for Order.PlacedAt
func WithClock(now func() time.Time) Option {
	return func(s *CartStore) {
		s.now = now
	}
}

func NewCartStore(ids idgen.Generator, opts ...Option) *CartStore {
	s := &CartStore{
		ids: ids,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// indexOf must be called with mu held
func (s *CartStore) indexOf(id string) int {
	for i := range s.cart {
		if s.cart[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem bumps the quantity of an item already in the cart, otherwise appends it with quantity 1.
func (s *CartStore) AddItem(c domain.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(c.ID); i >= 0 {
		s.cart[i].Quantity++
		return
	}
	s.cart = append(s.cart, domain.NewLineItem(c))
}

func (s *CartStore) IncrementQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.cart[i].Quantity++
	}
}

// DecrementQuantity stops at 1. Use RemoveItem or SetQuantity(id, 0) to drop the item.
func (s *CartStore) DecrementQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 && s.cart[i].Quantity > 1 {
		s.cart[i].Quantity--
	}
}

// SetQuantity removes the item when n <= 0.
func (s *CartStore) SetQuantity(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if n <= 0 {
		s.removeAt(i)
		return
	}
	s.cart[i].Quantity = n
}

func (s *CartStore) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.removeAt(i)
	}
}

func (s *CartStore) removeAt(i int) {
	s.cart = append(s.cart[:i], s.cart[i+1:]...)
}

func (s *CartStore) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Cart returns a copy of the line items in display order
func (s *CartStore) Cart() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.cart)
}

func (s *CartStore) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TotalPrice(s.cart)
}

func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ItemCount(s.cart)
}

// Summary returns the items, total and count from a single consistent read
func (s *CartStore) Summary() ([]domain.LineItem, float64, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.cart), domain.TotalPrice(s.cart), domain.ItemCount(s.cart)
}

// PlaceOrder snapshots the cart into a pending order, appends it to the
// history and empties the cart. Either all of that happens or none of it.
func (s *CartStore) PlaceOrder(ctx context.Context) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:       s.ids.NewID(),
		Items:    copyItems(s.cart),
		Total:    domain.TotalPrice(s.cart),
		PlacedAt: s.now(),
		Status:   domain.OrderStatusPending,
	}

	s.orders = append(s.orders, order)
	s.cart = nil

	return copyOrder(order), nil
}

// Orders returns the placed orders, oldest first
func (s *CartStore) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, copyOrder(o))
	}
	return result
}

func (s *CartStore) Order(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = copyItems(o.Items)
	return o
}
