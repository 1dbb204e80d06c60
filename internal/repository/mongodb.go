package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m2tx/session_chat/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDocument struct {
	ID        string       `bson:"_id"`
	Turns     []model.Turn `bson:"turns"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

// MongoSessionRepository implements SessionRepository using MongoDB.
// Each session is one document; turns live in an array field.
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository.
// collectionName defaults to "sessions" if empty.
func NewMongoSessionRepository(db *mongo.Database, collectionName string) *MongoSessionRepository {
	if collectionName == "" {
		collectionName = "sessions"
	}
	return &MongoSessionRepository{
		collection: db.Collection(collectionName),
	}
}

func (r *MongoSessionRepository) Append(ctx context.Context, sessionID string, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$push":        bson.M{"turns": bson.M{"$each": turns}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("repository: append session %q: %w", sessionID, err)
	}

	return nil
}

func (r *MongoSessionRepository) Load(ctx context.Context, sessionID string) ([]model.Turn, error) {
	filter := bson.M{"_id": sessionID}

	var doc sessionDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find session %q: %w", sessionID, err)
	}

	return doc.Turns, nil
}

func (r *MongoSessionRepository) Delete(ctx context.Context, sessionID string) error {
	filter := bson.M{"_id": sessionID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("repository: delete session %q: %w", sessionID, err)
	}

	return nil
}
