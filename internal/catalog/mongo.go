package catalog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
)

const CollectionName = "menuitems"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]models.MenuItem, int64, error) {
	filter := buildFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count menu items: %w", err)
	}

	opts := options.Find().
		SetSort(sortDocument(f)).
		SetSkip(f.Page.Skip()).
		SetLimit(f.Page.Limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find menu items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.MenuItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode menu items: %w", err)
	}
	return items, total, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find menu item %s: %w", id.Hex(), err)
	}
	return &item, nil
}

func (r *MongoRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find menu items by id: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.MenuItem, 0, len(ids))
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	return items, nil
}

func (r *MongoRepository) Insert(ctx context.Context, item *models.MenuItem) error {
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}
	return nil
}

func (r *MongoRepository) Replace(ctx context.Context, item *models.MenuItem) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("replace menu item %s: %w", item.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(resourceName, item.ID.Hex())
	}
	return nil
}

func (r *MongoRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool, at time.Time) (*models.MenuItem, error) {
	var updated models.MenuItem
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"availability": available, "updatedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("update menu item %s availability: %w", id.Hex(), err)
	}
	return &updated, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}

	if f.Availability != nil {
		filter["availability"] = *f.Availability
	}

	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if f.Category != "" {
		filter["category"] = f.Category
	}

	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	return filter
}

func sortDocument(f Filter) bson.D {
	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "name"
	}
	dir := 1
	if f.Descending {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}
