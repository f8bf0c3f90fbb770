package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/validation"
)

const (
	resourceName = "Order"

	// orderNumberAttempts bounds regeneration after a duplicate order number.
	orderNumberAttempts = 3
)

// MenuLookup resolves menu item ids against the catalog. Unknown ids are
// absent from the result.
type MenuLookup interface {
	Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error)
}

// LineDraft is one requested order line. Name and price fall back to the
// catalog record when omitted.
type LineDraft struct {
	MenuItemID     string                 `json:"menuItemId"`
	Name           string                 `json:"name"`
	Price          *float64               `json:"price"`
	Quantity       int                    `json:"quantity"`
	Customizations []models.Customization `json:"customizations"`
	SpecialNotes   string                 `json:"specialNotes"`
}

// Draft is the input for placing an order. Any client-computed total is
// ignored.
type Draft struct {
	CustomerID      string               `json:"customerId"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	OrderType       models.OrderType     `json:"orderType"`
	Items           []LineDraft          `json:"items"`
	PaymentStatus   models.PaymentStatus `json:"paymentStatus"`
	DeliveryAddress string               `json:"deliveryAddress"`
}

// Store is the order store and lifecycle manager.
type Store struct {
	repo    Repository
	menu    MenuLookup
	clock   clock.Clock
	log     *zap.Logger
	numbers func(time.Time) string
}

func NewStore(repo Repository, menu MenuLookup, clk clock.Clock, log *zap.Logger) *Store {
	return &Store{
		repo:    repo,
		menu:    menu,
		clock:   clk,
		log:     log.Named("orders"),
		numbers: GenerateOrderNumber,
	}
}

func (s *Store) Create(ctx context.Context, d Draft) (*models.Order, error) {
	now := s.clock.Now()
	paymentStatus := d.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}

	order := &models.Order{
		CustomerID:      strings.TrimSpace(d.CustomerID),
		CustomerName:    strings.TrimSpace(d.CustomerName),
		CustomerPhone:   strings.TrimSpace(d.CustomerPhone),
		OrderType:       d.OrderType,
		Status:          models.StatusPlaced,
		PaymentStatus:   paymentStatus,
		Timestamps:      models.StatusTimestamps{Placed: now},
		DeliveryAddress: strings.TrimSpace(d.DeliveryAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	verr := &apperr.ValidationError{}
	items, err := s.buildLines(ctx, d.Items, verr)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.TotalAmount = ComputeTotal(items)

	if v := validation.Struct(order); v != nil {
		verr.Fields = append(verr.Fields, v.Fields...)
	}
	if order.OrderType == models.OrderTypeDelivery && order.DeliveryAddress == "" {
		verr.Add("deliveryAddress is required for delivery orders")
	}
	if err := verr.OrNil(); err != nil {
		s.log.Warn("order rejected", zap.Strings("errors", verr.Fields))
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		order.OrderNumber = s.numbers(now)
		err = s.repo.Insert(ctx, order)
		if !errors.Is(err, ErrDuplicateOrderNumber) || attempt == orderNumberAttempts {
			break
		}
		s.log.Warn("order number collision, regenerating",
			zap.String("orderNumber", order.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.log.Info("order placed",
		zap.String("id", order.ID.Hex()),
		zap.String("orderNumber", order.OrderNumber),
		zap.Float64("totalAmount", order.TotalAmount),
	)
	s.populateAfterWrite(ctx, order)
	return order, nil
}

// Get returns the order with each line joined to the current catalog record.
func (s *Store) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, s.populate(ctx, order)
}

func (s *Store) List(ctx context.Context, f Filter) ([]models.Order, models.Pagination, error) {
	f.CustomerID = strings.TrimSpace(f.CustomerID)
	f.Page = f.Page.Normalize()
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}

	verr := &apperr.ValidationError{}
	if _, ok := sortFields[f.SortBy]; !ok {
		verr.Add("sortBy %q is not supported", f.SortBy)
	}
	if f.Status != "" && !KnownStatus(f.Status) {
		verr.Add("%s is not a valid status", f.Status)
	}
	if f.OrderType != "" && !knownOrderType(f.OrderType) {
		verr.Add("%s is not a valid order type", f.OrderType)
	}
	if err := verr.OrNil(); err != nil {
		return nil, models.Pagination{}, err
	}

	orders, total, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	for i := range orders {
		if err := s.populate(ctx, &orders[i]); err != nil {
			return nil, models.Pagination{}, err
		}
	}
	return orders, models.NewPagination(f.Page, total), nil
}

// ReplaceItems swaps the whole item list and recomputes the total. Status and
// timestamps are untouched.
func (s *Store) ReplaceItems(ctx context.Context, id string, lines []LineDraft) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &apperr.ValidationError{}
	items, err := s.buildLines(ctx, lines, verr)
	if err != nil {
		return nil, err
	}
	order.Items = items
	if v := validation.Struct(order); v != nil {
		verr.Fields = append(verr.Fields, v.Fields...)
	}
	if err := verr.OrNil(); err != nil {
		s.log.Warn("order items rejected", zap.String("id", id), zap.Strings("errors", verr.Fields))
		return nil, err
	}

	updated, err := s.repo.UpdateItems(ctx, order.ID, items, ComputeTotal(items), s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("order items replaced", zap.String("id", id), zap.Float64("totalAmount", updated.TotalAmount))
	s.populateAfterWrite(ctx, updated)
	return updated, nil
}

// TransitionStatus moves the order along the lifecycle and stamps the
// instant the new status was reached.
func (s *Store) TransitionStatus(ctx context.Context, id string, next models.OrderStatus) (*models.Order, error) {
	if !KnownStatus(next) {
		return nil, apperr.Validation(fmt.Sprintf("%s is not a valid status", next))
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, next) {
		s.log.Warn("order transition rejected",
			zap.String("id", id),
			zap.String("from", string(order.Status)),
			zap.String("to", string(next)),
		)
		return nil, &apperr.InvalidTransitionError{From: string(order.Status), To: string(next)}
	}

	updated, err := s.repo.UpdateStatus(ctx, order.ID, next, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("order status changed",
		zap.String("id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
	)
	s.populateAfterWrite(ctx, updated)
	return updated, nil
}

func (s *Store) Cancel(ctx context.Context, id string) (*models.Order, error) {
	return s.TransitionStatus(ctx, id, models.StatusCancelled)
}

func (s *Store) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentRefunded:
	default:
		return nil, apperr.Validation(fmt.Sprintf("%s is not a valid payment status", status))
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(resourceName, id)
	}
	updated, err := s.repo.UpdatePayment(ctx, oid, status, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("order payment status changed", zap.String("id", id), zap.String("paymentStatus", string(status)))
	s.populateAfterWrite(ctx, updated)
	return updated, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Store) find(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(resourceName, id)
	}
	return s.repo.FindByID(ctx, oid)
}

// buildLines snapshots each draft line against the catalog. Problems with
// menu item references are added to verr.
func (s *Store) buildLines(ctx context.Context, drafts []LineDraft, verr *apperr.ValidationError) ([]models.OrderItem, error) {
	ids := make([]primitive.ObjectID, len(drafts))
	lookup := make([]primitive.ObjectID, 0, len(drafts))
	for i, d := range drafts {
		raw := strings.TrimSpace(d.MenuItemID)
		if raw == "" {
			verr.Add("items[%d].menuItemId is required", i)
			continue
		}
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			verr.Add("items[%d].menuItemId %q is not a valid id", i, raw)
			continue
		}
		ids[i] = oid
		lookup = append(lookup, oid)
	}

	menu, err := s.menu.Lookup(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("resolve menu items: %w", err)
	}

	items := make([]models.OrderItem, len(drafts))
	for i, d := range drafts {
		line := models.OrderItem{
			MenuItemID:     ids[i],
			Name:           strings.TrimSpace(d.Name),
			Quantity:       d.Quantity,
			Customizations: d.Customizations,
			SpecialNotes:   d.SpecialNotes,
		}
		if line.Customizations == nil {
			line.Customizations = []models.Customization{}
		}
		if d.Price != nil {
			line.Price = *d.Price
		}

		if !ids[i].IsZero() {
			item, ok := menu[ids[i]]
			if !ok {
				verr.Add("items[%d].menuItemId %s does not match any menu item", i, ids[i].Hex())
			} else {
				if line.Name == "" {
					line.Name = item.Name
				}
				if d.Price == nil {
					line.Price = item.Price
				}
			}
		}
		items[i] = line
	}
	return items, nil
}

// populate attaches the catalog's current view of each line's menu item.
// Lines whose item no longer exists get a nil reference.
func (s *Store) populate(ctx context.Context, order *models.Order) error {
	ids := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.MenuItemID)
	}
	menu, err := s.menu.Lookup(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve menu items: %w", err)
	}
	for i := range order.Items {
		order.Items[i].MenuItem = nil
		if item, ok := menu[order.Items[i].MenuItemID]; ok {
			order.Items[i].MenuItem = &models.MenuItemRef{
				ID:       item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
			}
		}
	}
	return nil
}

// populateAfterWrite joins a just-persisted order to the catalog. The write
// has already happened, so a failed lookup leaves menuItem empty instead of
// reporting the write as failed.
func (s *Store) populateAfterWrite(ctx context.Context, order *models.Order) {
	if err := s.populate(ctx, order); err != nil {
		s.log.Warn("order saved without menu item details",
			zap.String("id", order.ID.Hex()),
			zap.Error(err),
		)
		for i := range order.Items {
			order.Items[i].MenuItem = nil
		}
	}
}

func knownOrderType(t models.OrderType) bool {
	switch t {
	case models.OrderTypeDineIn, models.OrderTypeTakeout, models.OrderTypeDelivery:
		return true
	}
	return false
}
