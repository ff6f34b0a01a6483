package repository

import (
	"context"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
)

// MenuRepository is the read side of the menu catalog plus the upsert used for seeding
type MenuRepository interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	UpsertMenuItem(ctx context.Context, item domain.MenuItem) error
}
