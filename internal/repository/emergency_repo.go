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

type EmergencyRepo struct {
	collection *mongo.Collection
}

func NewEmergencyRepo() *EmergencyRepo {
	return &EmergencyRepo{
		collection: database.GetCollection("emergency_requests"),
	}
}

func (r *EmergencyRepo) Create(ctx context.Context, req *models.EmergencyRequest) error {
	req.Status = models.EmergencyActive
	if req.Responses == nil {
		req.Responses = []models.EmergencyResponse{}
	}
	req.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *EmergencyRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.EmergencyRequest, error) {
	var req models.EmergencyRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *EmergencyRepo) FindActive(ctx context.Context) ([]models.EmergencyRequest, error) {
	return r.find(ctx, bson.M{"status": models.EmergencyActive})
}

// FindActiveForDonor returns active requests matching the donor's blood
// group exactly and their city as a case-insensitive substring.
func (r *EmergencyRepo) FindActiveForDonor(ctx context.Context, bloodGroup, city string) ([]models.EmergencyRequest, error) {
	return r.find(ctx, bson.M{
		"status":      models.EmergencyActive,
		"blood_group": bloodGroup,
		"city":        bson.M{"$regex": city, "$options": "i"},
	})
}

func (r *EmergencyRepo) find(ctx context.Context, filter bson.M) ([]models.EmergencyRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var requests []models.EmergencyRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// AddResponse appends the donor's response only if that donor is not
// already in the responses list. The guard and the append happen in a
// single conditional update, so two racing submissions from the same
// donor cannot both land. Returns false when the donor had already
// responded.
func (r *EmergencyRepo) AddResponse(ctx context.Context, id, donor bson.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"responses.donor": bson.M{"$ne": donor},
		},
		bson.M{
			"$push": bson.M{"responses": models.EmergencyResponse{
				Donor:       donor,
				RespondedAt: time.Now(),
			}},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *EmergencyRepo) UpdateStatus(ctx context.Context, id bson.ObjectID, status models.EmergencyStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status},
	})
	return err
}

func (r *EmergencyRepo) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": models.EmergencyActive})
}

// EnsureIndexes creates necessary indexes for the emergency_requests collection
func (r *EmergencyRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "blood_group", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
