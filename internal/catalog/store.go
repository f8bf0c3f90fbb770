package catalog

import (
	"context"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/validation"
)

const resourceName = "Menu item"

// Draft is the input for creating a menu item.
type Draft struct {
	Name                 string                       `json:"name"`
	Description          string                       `json:"description"`
	Category             models.Category              `json:"category"`
	Price                *float64                     `json:"price"`
	Ingredients          []string                     `json:"ingredients"`
	Tags                 []string                     `json:"tags"`
	Availability         *bool                        `json:"availability"`
	ImageURL             string                       `json:"imageUrl"`
	NutritionalInfo      *models.NutritionalInfo      `json:"nutritionalInfo"`
	CustomizationOptions []models.CustomizationOption `json:"customizationOptions"`
}

// Patch carries the fields of a partial update; nil means unchanged.
type Patch struct {
	Name                 *string                       `json:"name"`
	Description          *string                       `json:"description"`
	Category             *models.Category              `json:"category"`
	Price                *float64                      `json:"price"`
	Ingredients          *[]string                     `json:"ingredients"`
	Tags                 *[]string                     `json:"tags"`
	Availability         *bool                         `json:"availability"`
	ImageURL             *string                       `json:"imageUrl"`
	NutritionalInfo      *models.NutritionalInfo       `json:"nutritionalInfo"`
	CustomizationOptions *[]models.CustomizationOption `json:"customizationOptions"`
}

func (p Patch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil && p.Price == nil &&
		p.Ingredients == nil && p.Tags == nil && p.Availability == nil && p.ImageURL == nil &&
		p.NutritionalInfo == nil && p.CustomizationOptions == nil
}

func (p Patch) apply(item *models.MenuItem) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Ingredients != nil {
		item.Ingredients = models.StringList(*p.Ingredients).Normalize()
	}
	if p.Tags != nil {
		item.Tags = models.StringList(*p.Tags).Normalize()
	}
	if p.Availability != nil {
		item.Availability = *p.Availability
	}
	if p.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	if p.NutritionalInfo != nil {
		item.NutritionalInfo = p.NutritionalInfo
	}
	if p.CustomizationOptions != nil {
		item.CustomizationOptions = nonNilOptions(*p.CustomizationOptions)
	}
}

// Store is the catalog: search, CRUD and soft delete over menu items.
type Store struct {
	repo  Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewStore(repo Repository, clk clock.Clock, log *zap.Logger) *Store {
	return &Store{repo: repo, clock: clk, log: log.Named("catalog")}
}

// Search returns one page of items matching f. Unavailable items are hidden
// unless f.Availability asks for them.
func (s *Store) Search(ctx context.Context, f Filter) ([]models.MenuItem, models.Pagination, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Page = f.Page.Normalize()
	if f.Availability == nil {
		available := true
		f.Availability = &available
	}
	if f.SortBy == "" {
		f.SortBy = "name"
	}

	verr := &apperr.ValidationError{}
	if _, ok := sortFields[f.SortBy]; !ok {
		verr.Add("sortBy %q is not supported", f.SortBy)
	}
	if f.Category != "" && !slices.Contains(models.Categories, f.Category) {
		verr.Add("%s is not a valid category", f.Category)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		verr.Add("minPrice cannot be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		verr.Add("maxPrice cannot be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, models.Pagination{}, err
	}

	items, total, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(f.Page, total), nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(resourceName, id)
	}
	return s.repo.FindByID(ctx, oid)
}

// Lookup resolves ids to their current catalog records. Unknown ids are
// absent from the result.
func (s *Store) Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make(map[primitive.ObjectID]models.MenuItem, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	items, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, d Draft) (*models.MenuItem, error) {
	now := s.clock.Now()
	availability := true
	if d.Availability != nil {
		availability = *d.Availability
	}

	item := &models.MenuItem{
		Name:                 strings.TrimSpace(d.Name),
		Description:          d.Description,
		Category:             d.Category,
		Ingredients:          models.StringList(d.Ingredients).Normalize(),
		Tags:                 models.StringList(d.Tags).Normalize(),
		Availability:         availability,
		ImageURL:             strings.TrimSpace(d.ImageURL),
		NutritionalInfo:      d.NutritionalInfo,
		CustomizationOptions: nonNilOptions(d.CustomizationOptions),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if d.Price != nil {
		item.Price = *d.Price
	}

	verr := &apperr.ValidationError{}
	if v := validation.Struct(item); v != nil {
		verr.Fields = append(verr.Fields, v.Fields...)
	}
	if d.Price == nil {
		verr.Add("price is required")
	}
	if err := verr.OrNil(); err != nil {
		s.log.Warn("menu item rejected", zap.Strings("errors", verr.Fields))
		return nil, err
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("menu item created", zap.String("id", item.ID.Hex()), zap.String("name", item.Name))
	return item, nil
}

// Update merges p into the stored item and re-validates the result.
func (s *Store) Update(ctx context.Context, id string, p Patch) (*models.MenuItem, error) {
	if p.empty() {
		return nil, apperr.Validation("no fields to update")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.apply(item)
	if verr := validation.Struct(item); verr != nil {
		s.log.Warn("menu item update rejected", zap.String("id", id), zap.Strings("errors", verr.Fields))
		return nil, verr
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Replace(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("menu item updated", zap.String("id", id))
	return item, nil
}

// SoftDelete marks the item unavailable. Repeating it is harmless.
func (s *Store) SoftDelete(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(resourceName, id)
	}

	item, err := s.repo.SetAvailability(ctx, oid, false, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("menu item marked unavailable", zap.String("id", id))
	return item, nil
}

func nonNilOptions(opts []models.CustomizationOption) []models.CustomizationOption {
	if opts == nil {
		return []models.CustomizationOption{}
	}
	return opts
}

// Count returns the number of stored items, available or not.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
