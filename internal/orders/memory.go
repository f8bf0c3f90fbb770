package orders

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

// MemoryRepository keeps orders in process. It backs STORAGE=memory and the
// package tests, and enforces order number uniqueness like the unique index.
type MemoryRepository struct {
	mu      sync.RWMutex
	orders  map[primitive.ObjectID]models.Order
	numbers map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:  make(map[primitive.ObjectID]models.Order),
		numbers: make(map[string]struct{}),
	}
}

func (r *MemoryRepository) Find(_ context.Context, f Filter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, o := range r.orders {
		if f.Matches(o) {
			matched = append(matched, cloneOrder(o))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		c := compareOrders(matched[i], matched[j], f.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID.Hex(), matched[j].ID.Hex())
		}
		if f.Ascending {
			return c < 0
		}
		return c > 0
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

func (r *MemoryRepository) Scan(_ context.Context, q ScanQuery) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, 0)
	for _, o := range r.orders {
		if q.Matches(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *MemoryRepository) Insert(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.numbers[order.OrderNumber]; taken {
		return ErrDuplicateOrderNumber
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = cloneOrder(*order)
	r.numbers[order.OrderNumber] = struct{}{}
	return nil
}

func (r *MemoryRepository) UpdateItems(_ context.Context, id primitive.ObjectID, items []models.OrderItem, total float64, at time.Time) (*models.Order, error) {
	return r.update(id, func(o *models.Order) {
		o.Items = items
		o.TotalAmount = total
		o.UpdatedAt = at
	})
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	return r.update(id, func(o *models.Order) {
		o.Status = status
		Stamp(&o.Timestamps, status, at)
		o.UpdatedAt = at
	})
}

func (r *MemoryRepository) UpdatePayment(_ context.Context, id primitive.ObjectID, status models.PaymentStatus, at time.Time) (*models.Order, error) {
	return r.update(id, func(o *models.Order) {
		o.PaymentStatus = status
		o.UpdatedAt = at
	})
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *MemoryRepository) update(id primitive.ObjectID, mutate func(*models.Order)) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	mutate(&o)
	o = cloneOrder(o)
	r.orders[id] = o
	o = cloneOrder(o)
	return &o, nil
}

// cloneOrder copies the line slice so callers cannot mutate stored state.
func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.MenuItem = nil
		item.Customizations = append([]models.Customization{}, item.Customizations...)
		items[i] = item
	}
	o.Items = items
	return o
}

func compareOrders(a, b models.Order, sortBy string) int {
	switch sortBy {
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "totalAmount":
		switch {
		case a.TotalAmount < b.TotalAmount:
			return -1
		case a.TotalAmount > b.TotalAmount:
			return 1
		}
		return 0
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "orderNumber":
		return strings.Compare(a.OrderNumber, b.OrderNumber)
	case "customerName":
		return strings.Compare(a.CustomerName, b.CustomerName)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
