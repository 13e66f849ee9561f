package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/triviahub/trivia-api/internal/domain"
)

// CategoryRepository is an in-memory domain.CategoryRepository
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[int]domain.Category

	Err error
}

// NewCategoryRepository creates an empty in-memory category repository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[int]domain.Category),
	}
}

// Seed inserts categories as-is
func (r *CategoryRepository) Seed(categories ...domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range categories {
		r.categories[c.ID] = c
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	categories := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}
