package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"toytopia/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

type mongoToyRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoToyRepository creates a ToyRepository backed by a MongoDB collection.
// The repository owns client and disconnects it on Close.
func NewMongoToyRepository(client *mongo.Client, collection *mongo.Collection) ToyRepository {
	return &mongoToyRepository{client: client, collection: collection}
}

// List retrieves every toy with an unfiltered scan
func (r *mongoToyRepository) List(ctx context.Context) ([]*domain.Toy, error) {
	return r.find(ctx, bson.D{}, "list toys")
}

// Search matches title or category with an escaped, case-insensitive pattern
func (r *mongoToyRepository) Search(ctx context.Context, text string) ([]*domain.Toy, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "title", Value: pattern}},
		bson.D{{Key: "category", Value: pattern}},
	}}}

	return r.find(ctx, filter, "search toys")
}

// Categories scans the collection projecting only the category field
func (r *mongoToyRepository) Categories(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: "category", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapMongoError("list categories", err)
	}

	var rows []struct {
		Category string `bson:"category"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrapMongoError("decode categories", err)
	}

	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.Category)
	}

	return categories, nil
}

// FindByID retrieves a toy by its ObjectID
func (r *mongoToyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Toy, error) {
	toy := &domain.Toy{}
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(toy)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrToyNotFound
		}
		return nil, wrapMongoError("find toy by ID", err)
	}

	return toy, nil
}

// FindBySellerEmail retrieves toys with an exact sellerEmail match
func (r *mongoToyRepository) FindBySellerEmail(ctx context.Context, email string) ([]*domain.Toy, error) {
	return r.find(ctx, bson.D{{Key: "sellerEmail", Value: email}}, "find toys by seller")
}

// Create inserts a toy; the driver assigns the ObjectID
func (r *mongoToyRepository) Create(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error) {
	doc := *toy
	doc.ID = primitive.NilObjectID

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, wrapMongoError("create toy", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to create toy: unexpected inserted id type %T", res.InsertedID)
	}

	return &domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Delete removes at most one toy by ObjectID
func (r *mongoToyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, wrapMongoError("delete toy", err)
	}

	return &domain.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// Upsert applies $set on the mutable fields. On insert the equality filter
// on _id makes the new document carry the requested identifier.
func (r *mongoToyRepository) Upsert(ctx context.Context, id primitive.ObjectID, update domain.ToyUpdate) (*domain.UpdateResult, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	set := bson.D{{Key: "$set", Value: update}}

	res, err := r.collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	if err != nil {
		return nil, wrapMongoError("upsert toy", err)
	}

	result := &domain.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		result.UpsertedID = &upserted
	}

	return result, nil
}

func (r *mongoToyRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return wrapMongoError("ping mongo", err)
	}
	return nil
}

func (r *mongoToyRepository) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo client: %w", err)
	}
	return nil
}

func (r *mongoToyRepository) find(ctx context.Context, filter bson.D, op string) ([]*domain.Toy, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, wrapMongoError(op, err)
	}

	toys := []*domain.Toy{}
	if err := cursor.All(ctx, &toys); err != nil {
		return nil, wrapMongoError(op, err)
	}

	return toys, nil
}

// wrapMongoError tags connectivity failures with ErrStoreUnavailable
func wrapMongoError(op string, err error) error {
	if isMongoUnavailable(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isMongoUnavailable(err error) bool {
	var selectionErr topology.ServerSelectionError
	switch {
	case errors.As(err, &selectionErr):
		return true
	case errors.Is(err, mongo.ErrClientDisconnected):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
