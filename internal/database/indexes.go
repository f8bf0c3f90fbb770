package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/orders"
)

const indexTimeout = 5 * time.Second

func menuItemIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("menu_text"),
		},
		{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("category_index")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags_index")},
		{Keys: bson.D{{Key: "price", Value: 1}}, Options: options.Index().SetName("price_index")},
		{Keys: bson.D{{Key: "availability", Value: 1}}, Options: options.Index().SetName("availability_index")},
	}
}

func orderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName("orderNumber_unique").SetUnique(true),
		},
		{Keys: bson.D{{Key: "customerId", Value: 1}}, Options: options.Index().SetName("customerId_index")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status_index")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
		{Keys: bson.D{{Key: "items.menuItemId", Value: 1}}, Options: options.Index().SetName("items_menuItemId_index")},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_createdAt"),
		},
	}
}

func EnsureMenuItemIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexes(ctx, db.Collection(catalog.CollectionName), menuItemIndexes(), log)
}

// EnsureOrderIndexes includes the unique orderNumber index that backs
// orders.ErrDuplicateOrderNumber.
func EnsureOrderIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexes(ctx, db.Collection(orders.CollectionName), orderIndexes(), log)
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	log.Info("creating indexes", zap.String("collection", coll.Name()), zap.Int("count", len(models)))
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Error("index creation failed", zap.String("collection", coll.Name()), zap.Error(err))
		return fmt.Errorf("create %s indexes: %w", coll.Name(), err)
	}
	log.Info("indexes ready", zap.String("collection", coll.Name()), zap.Strings("indexes", names))
	return nil
}
