package http

import (
	"context"

	"github.com/fjod/go_cart/pickup-service/internal/archive"
	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/store"
)

// CartStores resolves the cart store of a session
type CartStores interface {
	Get(sessionID string) *store.CartStore
}

// MenuCatalog is the part of the catalog service the handlers use
type MenuCatalog interface {
	Menu(ctx context.Context, category, query string) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	Item(ctx context.Context, id string) (*domain.MenuItem, error)
}

// OrderHistory reads placed orders that outlive the in-memory session
type OrderHistory interface {
	GetOrder(ctx context.Context, id string) (*archive.ArchivedOrder, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]*archive.ArchivedOrder, error)
}
