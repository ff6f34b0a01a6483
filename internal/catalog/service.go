package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/cache"
	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/repository"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second

	fetchTimeout    = 5 * time.Second
	cacheSetTimeout = time.Second
)

type Service struct {
	repo   repository.MenuRepository
	cache  cache.MenuCache
	sfg    singleflight.Group // Prevents cache stampede
	list   *gobreaker.CircuitBreaker[[]domain.MenuItem]
	item   *gobreaker.CircuitBreaker[*domain.MenuItem]
	logger *zap.Logger

	fetchTimeout time.Duration

	// cacheMu orders cache writes against invalidation; generation
	// changes on every Seed so a menu read before it is never cached.
	cacheMu    sync.Mutex
	generation uint64
}

func NewService(repo repository.MenuRepository, c cache.MenuCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		cache:  c,
		list:   gobreaker.NewCircuitBreaker[[]domain.MenuItem](breakerSettings("menu-list", logger)),
		item:   gobreaker.NewCircuitBreaker[*domain.MenuItem](breakerSettings("menu-item", logger)),
		logger: logger,

		fetchTimeout: fetchTimeout,
	}
}

func breakerSettings(name string, logger *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:    name,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		// a missing item is an answer and a caller giving up is not the
		// repository failing
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repository.ErrMenuItemNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

// Menu returns the menu filtered by category and by a case-insensitive
// name search. An empty category or "All" and an empty query match everything.
func (s *Service) Menu(ctx context.Context, category, query string) ([]domain.MenuItem, error) {
	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	allCategories := category == "" || category == domain.CategoryAll
	query = strings.ToLower(strings.TrimSpace(query))
	if allCategories && query == "" {
		return items, nil
	}

	filtered := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if !allCategories && item.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// Categories returns "All" followed by every distinct category in menu order
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	categories := []string{domain.CategoryAll}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories, nil
}

// Item looks the id up in the cached menu first and asks the repository on a miss
func (s *Service) Item(ctx context.Context, id string) (*domain.MenuItem, error) {
	if items, err := s.cache.Get(ctx); err == nil {
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache get error", zap.Error(err))
	}

	item, err := s.item.Execute(func() (*domain.MenuItem, error) {
		return s.repo.GetMenuItem(ctx, id)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return item, nil
}

// Seed validates every item, upserts them and drops the cached menu
func (s *Service) Seed(ctx context.Context, items []domain.MenuItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := s.repo.UpsertMenuItem(ctx, item); err != nil {
			return err
		}
	}
	s.invalidateCache()
	return nil
}

// all loads the whole menu. The shared fetch runs detached from the callers
// so one caller giving up does not fail the others waiting on it.
func (s *Service) all(ctx context.Context) ([]domain.MenuItem, error) {
	ch := s.sfg.DoChan("menu", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		items, err := s.cache.Get(fetchCtx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get error", zap.Error(err)) // continue to the repository
		}

		s.cacheMu.Lock()
		generation := s.generation
		s.cacheMu.Unlock()

		items, err = s.list.Execute(func() ([]domain.MenuItem, error) {
			items, err := s.repo.ListMenu(fetchCtx)
			if err != nil && fetchCtx.Err() != nil {
				// nobody cancelled the detached fetch, the repository is too slow
				return nil, fmt.Errorf("%w: %v", errFetchTimeout, err)
			}
			return items, err
		})
		if err != nil {
			return nil, breakerError(err)
		}

		s.storeInCache(generation, items)
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.MenuItem), nil
	}
}

func (s *Service) storeInCache(generation uint64, items []domain.MenuItem) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if generation != s.generation {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheSetTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, items); err != nil {
		s.logger.Warn("cache set error", zap.Error(err))
	}
}

func (s *Service) invalidateCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("cache invalidate error", zap.Error(err))
	}
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
