package tourRepo

import (
	"context"
	"fmt"

	"tourbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTourRepo reads the tour catalog from the "tours" collection.
type MongoTourRepo struct {
	coll *mongo.Collection
}

func NewMongoTourRepo(client *mongo.Client, db string) *MongoTourRepo {
	return &MongoTourRepo{coll: client.Database(db).Collection("tours")}
}

func (r *MongoTourRepo) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	var tour models.Tour
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tour %s: %w", id, err)
	}
	return &tour, nil
}

func (r *MongoTourRepo) List(ctx context.Context) ([]models.Tour, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	defer cursor.Close(ctx)

	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}
	return tours, nil
}
