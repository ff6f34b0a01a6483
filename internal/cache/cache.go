package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
)

type MenuCache interface {
	Get(ctx context.Context) ([]domain.MenuItem, error)
	Set(ctx context.Context, items []domain.MenuItem) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
