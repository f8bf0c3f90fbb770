package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/orders"
)

func nutrition(calories, protein, carbs, fat float64) *models.NutritionalInfo {
	return &models.NutritionalInfo{Calories: &calories, Protein: &protein, Carbs: &carbs, Fat: &fat}
}

func price(v float64) *float64 { return &v }

func sampleMenu() []catalog.Draft {
	return []catalog.Draft{
		{
			Name:            "Margherita Pizza",
			Description:     "Classic pizza with fresh tomato sauce, mozzarella cheese, and aromatic basil leaves",
			Category:        models.CategoryMain,
			Price:           price(14.99),
			Ingredients:     []string{"tomato sauce", "mozzarella cheese", "fresh basil", "pizza dough", "olive oil"},
			Tags:            []string{"vegetarian", "italian", "popular"},
			NutritionalInfo: nutrition(285, 12, 36, 10),
		},
		{
			Name:            "Caesar Salad",
			Description:     "Crisp romaine lettuce with creamy Caesar dressing, parmesan cheese, and crunchy croutons",
			Category:        models.CategorySalad,
			Price:           price(12.99),
			Ingredients:     []string{"romaine lettuce", "parmesan cheese", "croutons", "caesar dressing"},
			Tags:            []string{"vegetarian", "healthy", "classic"},
			NutritionalInfo: nutrition(180, 8, 12, 12),
		},
		{
			Name:            "Grilled Salmon",
			Description:     "Fresh Atlantic salmon grilled to perfection, served with lemon butter sauce and seasonal vegetables",
			Category:        models.CategoryMain,
			Price:           price(24.99),
			Ingredients:     []string{"atlantic salmon", "lemon", "butter", "herbs", "seasonal vegetables"},
			Tags:            []string{"healthy", "gluten-free", "high-protein"},
			NutritionalInfo: nutrition(320, 35, 8, 16),
		},
		{
			Name:            "Chicken Wings",
			Description:     "Crispy buffalo chicken wings served with celery sticks and blue cheese dip",
			Category:        models.CategoryAppetizer,
			Price:           price(11.99),
			Ingredients:     []string{"chicken wings", "buffalo sauce", "celery", "blue cheese"},
			Tags:            []string{"spicy", "popular", "shareable"},
			NutritionalInfo: nutrition(425, 28, 5, 32),
		},
		{
			Name:            "Chocolate Brownie",
			Description:     "Rich, fudgy chocolate brownie served warm with vanilla ice cream and chocolate sauce",
			Category:        models.CategoryDessert,
			Price:           price(8.99),
			Ingredients:     []string{"chocolate", "flour", "eggs", "butter", "vanilla ice cream"},
			Tags:            []string{"dessert", "sweet", "indulgent"},
			NutritionalInfo: nutrition(450, 6, 58, 24),
		},
		{
			Name:            "Fresh Orange Juice",
			Description:     "Freshly squeezed orange juice, no additives or preservatives",
			Category:        models.CategoryBeverage,
			Price:           price(4.99),
			Ingredients:     []string{"fresh oranges"},
			Tags:            []string{"healthy", "fresh", "vitamin-c"},
			NutritionalInfo: nutrition(110, 2, 26, 0),
		},
	}
}

// sampleOrder is placed ago before the seed runs and then walked through
// stages, each step after the previous one.
type sampleOrder struct {
	draft  orders.Draft
	ago    time.Duration
	stages []models.OrderStatus
	step   time.Duration
}

func sampleOrders(first, second models.MenuItem) []sampleOrder {
	return []sampleOrder{
		{
			draft: orders.Draft{
				CustomerName:  "John Smith",
				CustomerPhone: "+1-555-0123",
				OrderType:     models.OrderTypeDineIn,
				PaymentStatus: models.PaymentPaid,
				Items: []orders.LineDraft{
					{MenuItemID: first.ID.Hex(), Quantity: 2, SpecialNotes: "Extra cheese please"},
				},
			},
			ago:    24 * time.Hour,
			stages: []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered},
			step:   20 * time.Minute,
		},
		{
			draft: orders.Draft{
				CustomerName:  "Sarah Johnson",
				CustomerPhone: "+1-555-0456",
				OrderType:     models.OrderTypeTakeout,
				PaymentStatus: models.PaymentPaid,
				Items: []orders.LineDraft{
					{MenuItemID: second.ID.Hex(), Quantity: 1},
				},
			},
			ago:    30 * time.Minute,
			stages: []models.OrderStatus{models.StatusPreparing, models.StatusReady},
			step:   10 * time.Minute,
		},
	}
}

// Seed fills empty collections with sample data. Populated collections are
// left alone.
func Seed(ctx context.Context, menuRepo catalog.Repository, orderRepo orders.Repository, clk clock.Clock, log *zap.Logger) error {
	log = log.Named("seed")
	menu := catalog.NewStore(menuRepo, clk, log)

	items, err := menu.Count(ctx)
	if err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if items == 0 {
		for _, d := range sampleMenu() {
			if _, err := menu.Create(ctx, d); err != nil {
				return fmt.Errorf("seed menu item %q: %w", d.Name, err)
			}
		}
		log.Info("inserted sample menu items", zap.Int("count", len(sampleMenu())))
	}

	existing, err := orderRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if existing > 0 {
		log.Info("database already contains orders, skipping order seed")
		return nil
	}

	available, _, err := menu.Search(ctx, catalog.Filter{Page: models.PageRequest{Page: 1, Limit: 2}})
	if err != nil {
		return fmt.Errorf("load menu items: %w", err)
	}
	if len(available) < 2 {
		log.Warn("not enough available menu items to seed orders", zap.Int("available", len(available)))
		return nil
	}

	now := clk.Now()
	for _, sample := range sampleOrders(available[0], available[1]) {
		at := &clock.Fixed{At: now.Add(-sample.ago)}
		store := orders.NewStore(orderRepo, menu, at, log)

		order, err := store.Create(ctx, sample.draft)
		if err != nil {
			return fmt.Errorf("seed order for %s: %w", sample.draft.CustomerName, err)
		}
		for _, status := range sample.stages {
			at.Advance(sample.step)
			if _, err := store.TransitionStatus(ctx, order.ID.Hex(), status); err != nil {
				return fmt.Errorf("seed order %s to %s: %w", order.OrderNumber, status, err)
			}
		}
	}
	log.Info("inserted sample orders", zap.Int("count", 2))
	return nil
}
