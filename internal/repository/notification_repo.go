package repository

import (
	"context"
	"time"

	"bloodfinder-backend/internal/database"
	"bloodfinder-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type NotificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{
		collection: database.GetCollection("notifications"),
	}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.Priority == "" {
		n.Priority = "medium"
	}
	n.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// activeFilter excludes notifications past their expiry.
func activeFilter(recipient bson.ObjectID) bson.M {
	return bson.M{
		"recipient": recipient,
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": bson.M{"$gte": time.Now()}},
		},
	}
}

func (r *NotificationRepo) FindActiveByRecipient(ctx context.Context, recipient bson.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "priority", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, activeFilter(recipient), opts)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipient bson.ObjectID) (int64, error) {
	filter := activeFilter(recipient)
	filter["is_read"] = false
	return r.collection.CountDocuments(ctx, filter)
}

// MarkRead flips one notification, scoped to its recipient so a user
// cannot touch someone else's.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipient bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipient bson.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

// EnsureIndexes creates necessary indexes for the notifications collection
func (r *NotificationRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "recipient", Value: 1},
				{Key: "is_read", Value: 1},
			},
		},
		{
			// Expired notifications stay on record; activeFilter hides
			// them per query, this index just keeps that cheap.
			Keys: bson.D{{Key: "expires_at", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
