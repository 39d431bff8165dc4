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

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.Status == "" {
		feedback.Status = models.FeedbackPending
	}
	feedback.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"user": userID})
}

// FindAll lists feedback for admin review, optionally narrowed by status
// and category.
func (r *FeedbackRepo) FindAll(ctx context.Context, status, category string) ([]models.Feedback, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if category != "" {
		filter["category"] = category
	}
	return r.find(ctx, filter)
}

func (r *FeedbackRepo) find(ctx context.Context, filter bson.M) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// Respond stores the admin's reply and moves the feedback along its
// review lifecycle.
func (r *FeedbackRepo) Respond(ctx context.Context, id bson.ObjectID, adminResponse string, status models.FeedbackStatus) error {
	if status == "" {
		status = models.FeedbackReviewed
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"admin_response": adminResponse,
			"status":         status,
			"responded_at":   time.Now(),
		},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category", Value: 1},
			},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
