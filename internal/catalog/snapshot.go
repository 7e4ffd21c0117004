package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// Snapshot is the in-memory catalog view rendering and search operate on. It
// caches the last successful load; Refresh repopulates it. Concurrent
// refreshes collapse into one repository query via singleflight.
type Snapshot struct {
	repo Repository
	sfg  singleflight.Group

	mu         sync.RWMutex
	products   []domain.Product
	byID       map[string]domain.Product
	categories []domain.Category
	loaded     bool
}

func NewSnapshot(repo Repository) *Snapshot {
	return &Snapshot{repo: repo}
}

// Refresh loads products and categories, replacing the cached view. The two
// queries run concurrently and are joined before the snapshot swaps in, so a
// reader never sees a half-updated catalog.
func (s *Snapshot) Refresh(ctx context.Context) error {
	_, err, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		type productResult struct {
			products []domain.Product
			err      error
		}
		ch := make(chan productResult, 1)
		go func() {
			p, err := s.repo.ListProducts(ctx)
			ch <- productResult{p, err}
		}()

		categories, catErr := s.repo.ListCategories(ctx)
		pr := <-ch
		if pr.err != nil {
			return nil, pr.err
		}
		if catErr != nil {
			return nil, catErr
		}

		byID := make(map[string]domain.Product, len(pr.products))
		for _, p := range pr.products {
			byID[p.ID] = p
		}

		s.mu.Lock()
		s.products = pr.products
		s.byID = byID
		s.categories = categories
		s.loaded = true
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// ensure lazily loads the snapshot on first use.
func (s *Snapshot) ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Products returns the catalog ordered newest first (the repository's query
// order).
func (s *Snapshot) Products(ctx context.Context) ([]domain.Product, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Snapshot) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// Product resolves one product by ID from the cached view. It does not hit
// the repository; an unloaded snapshot resolves nothing.
func (s *Snapshot) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}
