package repository

import (
	"context"
	"time"

	"bloodfinder-backend/internal/database"
	"bloodfinder-backend/internal/matching"
	"bloodfinder-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GroupCount is one bucket of a distribution aggregation.
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int    `bson:"count" json:"count"`
}

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		collection: database.GetCollection("users"),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "role": role})
}

func (r *UserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SearchDonors returns approved, available donors matching the requested
// blood group (the "ALL" sentinel and an empty value disable that filter)
// and a case-insensitive city substring. Ordered by total donations
// descending, then first name.
func (r *UserRepo) SearchDonors(ctx context.Context, bloodGroup, city string) ([]models.User, error) {
	filter := bson.M{
		"role":         models.RoleDonor,
		"is_approved":  true,
		"is_available": true,
		"city":         bson.M{"$regex": city, "$options": "i"},
	}
	if matching.BloodGroupFiltered(bloodGroup) {
		filter["blood_group"] = bloodGroup
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "total_donations", Value: -1},
		{Key: "first_name", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var donors []models.User
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// ListDonors pages through every donor regardless of approval or
// availability, for administrative browsing. Returns the page plus the
// total match count.
func (r *UserRepo) ListDonors(ctx context.Context, page, limit int64, city, bloodGroup string) ([]models.User, int64, error) {
	filter := bson.M{"role": models.RoleDonor}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if matching.BloodGroupFiltered(bloodGroup) {
		filter["blood_group"] = bloodGroup
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var donors []models.User
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return donors, total, nil
}

// ApprovedDonors lists every approved donor ordered by total donations,
// used by the public donor-feedback picker.
func (r *UserRepo) ApprovedDonors(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "total_donations", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"role": models.RoleDonor, "is_approved": true}, opts)
	if err != nil {
		return nil, err
	}
	var donors []models.User
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// AllDonors lists every donor, newest first (admin view, no paging).
func (r *UserRepo) AllDonors(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"role": models.RoleDonor}, opts)
	if err != nil {
		return nil, err
	}
	var donors []models.User
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *UserRepo) UpdateAvailability(ctx context.Context, id bson.ObjectID, isAvailable bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_available": isAvailable},
	})
	return err
}

// RecordDonation bumps the donor's lifetime counter atomically and stamps
// the last donation date.
func (r *UserRepo) RecordDonation(ctx context.Context, id bson.ObjectID, donationDate time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"total_donations": 1},
		"$set": bson.M{"last_donation": donationDate},
	})
	return err
}

func (r *UserRepo) CountDonors(ctx context.Context, onlyAvailable bool) (int64, error) {
	filter := bson.M{"role": models.RoleDonor, "is_approved": true}
	if onlyAvailable {
		filter["is_available"] = true
	}
	return r.collection.CountDocuments(ctx, filter)
}

// TotalDonationCount sums every approved donor's lifetime counter.
func (r *UserRepo) TotalDonationCount(ctx context.Context) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": models.RoleDonor}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_donations"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// BloodGroupDistribution buckets approved donors by blood group.
func (r *UserRepo) BloodGroupDistribution(ctx context.Context, sortByCount bool) ([]GroupCount, error) {
	sortKey := bson.D{{Key: "_id", Value: 1}}
	if sortByCount {
		sortKey = bson.D{{Key: "count", Value: -1}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": models.RoleDonor, "is_approved": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$blood_group", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: sortKey}},
	}
	return r.aggregateGroups(ctx, pipeline)
}

// CityDistribution buckets approved donors by city, top ten cities first.
func (r *UserRepo) CityDistribution(ctx context.Context) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": models.RoleDonor, "is_approved": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$city", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
	}
	return r.aggregateGroups(ctx, pipeline)
}

func (r *UserRepo) aggregateGroups(ctx context.Context, pipeline mongo.Pipeline) ([]GroupCount, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var groups []GroupCount
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "is_approved", Value: 1},
				{Key: "is_available", Value: 1},
			},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
