package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seatwise/internal/migrations/mongo/validators"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		// Serves the staff list queries.
		{Keys: bson.D{
			{Key: "unit_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "status", Value: 1},
		}},
		// Serves the per-date capacity aggregation.
		{Keys: bson.D{
			{Key: "unit_id", Value: 1},
			{Key: "date_key", Value: 1},
			{Key: "status", Value: 1},
		}},
		{
			Keys: bson.D{{Key: "reference_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
				"reference_code": bson.M{"$type": "string"},
			}),
		},
	}

	ReservationSettingsIndexes = []mongo.IndexModel{
		// One settings document per unit.
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Seatwise Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Reservation_settings": {
			Indexes:   ReservationSettingsIndexes,
			Validator: validators.ReservationSettingValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := backfillBookingDateKeys(ctx, db); err != nil {
		return fmt.Errorf("failed to backfill booking date keys: %w", err)
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

// backfillBookingDateKeys fills date_key on documents written before the field
// existed. The UTC date of start_time is the best available approximation for
// legacy rows; new writes always carry the exact venue-local key.
func backfillBookingDateKeys(ctx context.Context, db *mongo.Database) error {
	filter := bson.M{"date_key": bson.M{"$exists": false}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"date_key": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$start_time"}},
		}}},
	}

	result, err := db.Collection("Bookings").UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount > 0 {
		fmt.Printf("🧮 Backfilled date_key on %d booking(s)\n", result.ModifiedCount)
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
