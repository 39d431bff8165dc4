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

// DonationFilter narrows history queries. Zero values disable each field.
type DonationFilter struct {
	Donor      bson.ObjectID
	BloodGroup string
	City       string
	StartDate  time.Time
	EndDate    time.Time
}

func (f DonationFilter) toBSON() bson.M {
	filter := bson.M{}
	if !f.Donor.IsZero() {
		filter["donor"] = f.Donor
	}
	if f.BloodGroup != "" {
		filter["blood_group"] = f.BloodGroup
	}
	if f.City != "" {
		filter["city"] = bson.M{"$regex": f.City, "$options": "i"}
	}
	dateRange := bson.M{}
	if !f.StartDate.IsZero() {
		dateRange["$gte"] = f.StartDate
	}
	if !f.EndDate.IsZero() {
		dateRange["$lte"] = f.EndDate
	}
	if len(dateRange) > 0 {
		filter["donation_date"] = dateRange
	}
	return filter
}

// MonthlyCount is one month's bucket in a donations-over-time aggregation.
type MonthlyCount struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Count int `bson:"count" json:"count"`
}

type DonationRepo struct {
	collection *mongo.Collection
}

func NewDonationRepo() *DonationRepo {
	return &DonationRepo{
		collection: database.GetCollection("donation_history"),
	}
}

func (r *DonationRepo) Create(ctx context.Context, donation *models.DonationHistory) error {
	if donation.Status == "" {
		donation.Status = models.DonationCompleted
	}
	donation.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, donation)
	if err != nil {
		return err
	}
	donation.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *DonationRepo) Find(ctx context.Context, filter DonationFilter) ([]models.DonationHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "donation_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter.toBSON(), opts)
	if err != nil {
		return nil, err
	}
	var donations []models.DonationHistory
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepo) FindByDonor(ctx context.Context, donor bson.ObjectID) ([]models.DonationHistory, error) {
	return r.Find(ctx, DonationFilter{Donor: donor})
}

// MostRecent returns the latest donation matching the filter, or nil.
func (r *DonationRepo) MostRecent(ctx context.Context, filter DonationFilter) (*models.DonationHistory, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "donation_date", Value: -1}})
	var donation models.DonationHistory
	err := r.collection.FindOne(ctx, filter.toBSON(), opts).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepo) Count(ctx context.Context, filter DonationFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, filter.toBSON())
}

// TotalQuantity sums donated milliliters across the filtered history.
func (r *DonationRepo) TotalQuantity(ctx context.Context, filter DonationFilter) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.toBSON()}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$quantity"}}}},
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

// CountByType buckets the filtered history by donation type.
func (r *DonationRepo) CountByType(ctx context.Context, filter DonationFilter) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.toBSON()}},
		{{Key: "$group", Value: bson.M{"_id": "$donation_type", "count": bson.M{"$sum": 1}}}},
	}
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

// CountByMonth buckets donations since the given time into year/month
// pairs, oldest first, for the dashboard timeline.
func (r *DonationRepo) CountByMonth(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"donation_date": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$donation_date"},
				"month": bson.M{"$month": "$donation_date"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"month": "$_id.month",
			"count": 1,
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var months []MonthlyCount
	if err := cursor.All(ctx, &months); err != nil {
		return nil, err
	}
	return months, nil
}

// EnsureIndexes creates necessary indexes for the donation_history collection
func (r *DonationRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "donor", Value: 1},
				{Key: "donation_date", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "donation_date", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
