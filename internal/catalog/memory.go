package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
)

// MemoryRepository keeps menu items in process. It backs STORAGE=memory and
// the package tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.MenuItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[primitive.ObjectID]models.MenuItem)}
}

func (r *MemoryRepository) Find(_ context.Context, f Filter) ([]models.MenuItem, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.MenuItem, 0)
	for _, item := range r.items {
		if f.Matches(item) {
			matched = append(matched, item)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		c := compareItems(matched[i], matched[j], f.SortBy)
		if c == 0 {
			return matched[i].ID.Hex() < matched[j].ID.Hex()
		}
		if f.Descending {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	start := f.Page.Skip()
	if start > total {
		start = total
	}
	end := start + f.Page.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	return &item, nil
}

func (r *MemoryRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Insert(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepository) Replace(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return apperr.NotFound(resourceName, item.ID.Hex())
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepository) SetAvailability(_ context.Context, id primitive.ObjectID, available bool, at time.Time) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	item.Availability = available
	item.UpdatedAt = at
	r.items[id] = item
	return &item, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func compareItems(a, b models.MenuItem, sortBy string) int {
	switch sortBy {
	case "price":
		return compareFloat(a.Price, b.Price)
	case "category":
		return strings.Compare(string(a.Category), string(b.Category))
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
