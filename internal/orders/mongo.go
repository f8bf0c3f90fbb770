package orders

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
)

const CollectionName = "orders"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]models.Order, int64, error) {
	filter := buildFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(sortDocument(f)).
		SetSkip(f.Page.Skip()).
		SetLimit(f.Page.Limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

func (r *MongoRepository) Scan(ctx context.Context, q ScanQuery) ([]models.Order, error) {
	filter := bson.M{}
	if created := createdAtRange(q.From, q.To); created != nil {
		filter["createdAt"] = created
	}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id.Hex(), err)
	}
	return &order, nil
}

func (r *MongoRepository) Insert(ctx context.Context, order *models.Order) error {
	res, err := r.coll.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateOrderNumber
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (r *MongoRepository) UpdateItems(ctx context.Context, id primitive.ObjectID, items []models.OrderItem, total float64, at time.Time) (*models.Order, error) {
	return r.update(ctx, id, bson.M{"items": items, "totalAmount": total, "updatedAt": at})
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	return r.update(ctx, id, bson.M{"status": status, timestampField(status): at, "updatedAt": at})
}

func (r *MongoRepository) UpdatePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, at time.Time) (*models.Order, error) {
	return r.update(ctx, id, bson.M{"paymentStatus": status, "updatedAt": at})
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	var updated models.Order
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound(resourceName, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.OrderType != "" {
		filter["orderType"] = f.OrderType
	}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	if created := createdAtRange(f.From, f.To); created != nil {
		filter["createdAt"] = created
	}
	return filter
}

func createdAtRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	created := bson.M{}
	if from != nil {
		created["$gte"] = *from
	}
	if to != nil {
		created["$lte"] = *to
	}
	return created
}

func sortDocument(f Filter) bson.D {
	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "createdAt"
	}
	dir := -1
	if f.Ascending {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
