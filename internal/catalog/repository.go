package catalog

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-backend/internal/models"
)

// Repository persists menu items. Lookups of unknown ids return
// *apperr.NotFoundError.
type Repository interface {
	Find(ctx context.Context, f Filter) ([]models.MenuItem, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error)
	Insert(ctx context.Context, item *models.MenuItem) error
	Replace(ctx context.Context, item *models.MenuItem) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool, at time.Time) (*models.MenuItem, error)
	Count(ctx context.Context) (int64, error)
}

// sortFields maps accepted sortBy values to document fields.
var sortFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"category":  "category",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

// Filter combines optional criteria with AND semantics.
type Filter struct {
	Search       string
	Category     models.Category
	Tags         []string
	MinPrice     *float64
	MaxPrice     *float64
	Availability *bool
	SortBy       string
	Descending   bool
	Page         models.PageRequest
}

// Matches applies the filter criteria to a single item.
func (f Filter) Matches(item models.MenuItem) bool {
	if f.Availability != nil && item.Availability != *f.Availability {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) {
			return false
		}
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if len(f.Tags) > 0 && !item.Tags.ContainsAny(f.Tags) {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	return true
}
