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

// InventoryRollup is the dashboard's per-group stock summary.
type InventoryRollup struct {
	BloodGroup    string `bson:"_id" json:"bloodGroup"`
	TotalQuantity int    `bson:"total_quantity" json:"totalQuantity"`
	Hospitals     int    `bson:"hospitals" json:"hospitals"`
}

type InventoryRepo struct {
	collection *mongo.Collection
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{
		collection: database.GetCollection("blood_inventory"),
	}
}

// Create inserts a fresh record for a (bloodGroup, hospital, city) triple,
// deriving units and status from the quantity.
func (r *InventoryRepo) Create(ctx context.Context, inv *models.BloodInventory) error {
	if inv.MinimumThreshold <= 0 {
		inv.MinimumThreshold = matching.DefaultMinimumThreshold
	}
	inv.UnitsAvailable = matching.UnitsAvailable(inv.Quantity)
	inv.Status = matching.InventoryStatus(inv.Quantity, inv.MinimumThreshold)
	if inv.LastUpdated.IsZero() {
		inv.LastUpdated = time.Now()
	}
	inv.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return err
	}
	inv.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *InventoryRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.BloodInventory, error) {
	var inv models.BloodInventory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// FindByTriple looks up the live record for one blood group at one
// hospital; the triple identifies at most one record.
func (r *InventoryRepo) FindByTriple(ctx context.Context, bloodGroup, hospital, city string) (*models.BloodInventory, error) {
	var inv models.BloodInventory
	err := r.collection.FindOne(ctx, bson.M{
		"blood_group": bloodGroup,
		"hospital":    hospital,
		"city":        city,
	}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// AddQuantity merges newly received stock into an existing record. The
// quantity bump is an atomic $inc; units and status are then recomputed
// from the post-increment quantity and written back. Optional contact,
// expiry and notes fields overwrite only when supplied.
func (r *InventoryRepo) AddQuantity(ctx context.Context, id bson.ObjectID, deltaML int, expiryDate *time.Time, contactNumber, notes string) (*models.BloodInventory, error) {
	set := bson.M{"last_updated": time.Now()}
	if expiryDate != nil {
		set["expiry_date"] = expiryDate
	}
	if contactNumber != "" {
		set["contact_number"] = contactNumber
	}
	if notes != "" {
		set["notes"] = notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inv models.BloodInventory
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"quantity": deltaML},
		"$set": set,
	}, opts).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	inv.UnitsAvailable = matching.UnitsAvailable(inv.Quantity)
	inv.Status = matching.InventoryStatus(inv.Quantity, inv.MinimumThreshold)
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{
		"$set": bson.M{
			"units_available": inv.UnitsAvailable,
			"status":          inv.Status,
		},
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update applies an admin edit. A quantity overwrite recomputes units;
// the caller supplies the status, either re-derived from the new quantity
// or pinned to the terminal "expired" state.
func (r *InventoryRepo) Update(ctx context.Context, id bson.ObjectID, quantity *int, status models.InventoryStatus, notes string) error {
	set := bson.M{"last_updated": time.Now()}
	if quantity != nil {
		set["quantity"] = *quantity
		set["units_available"] = matching.UnitsAvailable(*quantity)
	}
	if status != "" {
		set["status"] = status
	}
	if notes != "" {
		set["notes"] = notes
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Search is the public lookup: expired records never surface, the "ALL"
// sentinel disables the blood group filter, city and hospital match as
// case-insensitive substrings. Scarcest stock sorts first within each
// status band.
func (r *InventoryRepo) Search(ctx context.Context, bloodGroup, city, hospital string) ([]models.BloodInventory, error) {
	filter := bson.M{"status": bson.M{"$ne": models.InventoryExpired}}
	if matching.BloodGroupFiltered(bloodGroup) {
		filter["blood_group"] = bloodGroup
	}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if hospital != "" {
		filter["hospital"] = bson.M{"$regex": hospital, "$options": "i"}
	}
	return r.find(ctx, filter, bson.D{
		{Key: "status", Value: 1},
		{Key: "quantity", Value: -1},
	})
}

// FindAll lists everything, expired included, for administrative view.
func (r *InventoryRepo) FindAll(ctx context.Context) ([]models.BloodInventory, error) {
	return r.find(ctx, bson.M{}, bson.D{
		{Key: "status", Value: 1},
		{Key: "last_updated", Value: -1},
	})
}

// Alerts lists critical and low records, lowest stock first.
func (r *InventoryRepo) Alerts(ctx context.Context) ([]models.BloodInventory, error) {
	filter := bson.M{"status": bson.M{"$in": []models.InventoryStatus{
		models.InventoryCritical,
		models.InventoryLow,
	}}}
	return r.find(ctx, filter, bson.D{
		{Key: "status", Value: 1},
		{Key: "quantity", Value: 1},
	})
}

func (r *InventoryRepo) find(ctx context.Context, filter bson.M, sortKeys bson.D) ([]models.BloodInventory, error) {
	opts := options.Find().SetSort(sortKeys)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var records []models.BloodInventory
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Rollup aggregates stock by blood group across hospitals.
func (r *InventoryRepo) Rollup(ctx context.Context) ([]InventoryRollup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            "$blood_group",
			"total_quantity": bson.M{"$sum": "$quantity"},
			"hospitals":      bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rollups []InventoryRollup
	if err := cursor.All(ctx, &rollups); err != nil {
		return nil, err
	}
	return rollups, nil
}

// EnsureIndexes creates necessary indexes for the blood_inventory collection
func (r *InventoryRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "blood_group", Value: 1},
				{Key: "hospital", Value: 1},
				{Key: "city", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
