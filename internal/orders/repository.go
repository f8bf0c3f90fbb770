package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-backend/internal/models"
)

// ErrDuplicateOrderNumber is returned by Insert when the order number is taken.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

// Repository persists orders. Lookups of unknown ids return
// *apperr.NotFoundError. Updates are single-document writes; concurrent
// writers to the same order overwrite each other.
type Repository interface {
	Find(ctx context.Context, f Filter) ([]models.Order, int64, error)
	Scan(ctx context.Context, q ScanQuery) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Insert(ctx context.Context, order *models.Order) error
	UpdateItems(ctx context.Context, id primitive.ObjectID, items []models.OrderItem, total float64, at time.Time) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error)
	UpdatePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, at time.Time) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
}

// sortFields maps accepted sortBy values to document fields.
var sortFields = map[string]string{
	"createdAt":    "createdAt",
	"updatedAt":    "updatedAt",
	"totalAmount":  "totalAmount",
	"status":       "status",
	"orderNumber":  "orderNumber",
	"customerName": "customerName",
}

// Filter selects a page of orders. The createdAt bounds are inclusive.
type Filter struct {
	Status     models.OrderStatus
	OrderType  models.OrderType
	CustomerID string
	From       *time.Time
	To         *time.Time
	SortBy     string
	Ascending  bool
	Page       models.PageRequest
}

// Matches applies the filter criteria to a single order.
func (f Filter) Matches(o models.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.OrderType != "" && o.OrderType != f.OrderType {
		return false
	}
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	return inRange(o.CreatedAt, f.From, f.To)
}

// ScanQuery selects every order created within an optional range, optionally
// restricted to some statuses. Results are ordered by createdAt ascending.
type ScanQuery struct {
	From     *time.Time
	To       *time.Time
	Statuses []models.OrderStatus
}

func (q ScanQuery) Matches(o models.Order) bool {
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return inRange(o.CreatedAt, q.From, q.To)
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
