package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parley/parley/internal/model"
)

// CreateMessage inserts a new message and assigns its store-generated ID.
// The timestamp is defaulted to the insert time when the caller leaves it zero.
func (r *Repository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	res, err := r.messages().InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = id
	}

	return nil
}

// ListConversation returns all messages exchanged between the two users,
// in either direction, ordered ascending by timestamp. The result is
// unbounded; there is no pagination.
func (r *Repository) ListConversation(ctx context.Context, a, b primitive.ObjectID) ([]model.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": a, "receiver": b},
			{"sender": b, "receiver": a},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.messages().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	defer cursor.Close(ctx)

	messages := make([]model.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}
