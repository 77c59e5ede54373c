package repository

import (
	"context"
	"errors"
	"fmt"
	reservationserrors "seatwise/internal/reservations/errors"
	"seatwise/pkg/config"
	mongotx "seatwise/pkg/db/mongo"
	"seatwise/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByUnitAndRange(ctx context.Context, unitID string, from, to *time.Time, statuses []string, limit int, offset int64) ([]*model.Booking, error)
	CountByUnitAndRange(ctx context.Context, unitID string, from, to *time.Time, statuses []string) (int64, error)
	SumHeadcountByDateKey(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error)
	Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	UpdateStatus(ctx context.Context, id string, expectStatuses []string, set bson.M) (*mongo.UpdateResult, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Create inserts the booking. When booking.ID carries a pre-assigned ObjectID
// hex (the service assigns one so the reference code can be sealed before the
// insert), that id is used; otherwise a fresh one is generated.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	objectID := primitive.NewObjectID()
	if booking.ID != "" {
		oid, err := primitive.ObjectIDFromHex(booking.ID)
		if err != nil {
			return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, booking.ID)
		}
		objectID = oid
	}

	raw, err := bson.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to encode booking: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to encode booking: %w", err)
	}
	doc["_id"] = objectID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = objectID.Hex()
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByUnitAndRange(
	ctx context.Context,
	unitID string,
	from, to *time.Time,
	statuses []string,
	limit int, offset int64,
) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(unitID, from, to, statuses)

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByUnitAndRange(
	ctx context.Context,
	unitID string,
	from, to *time.Time,
	statuses []string,
) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(unitID, from, to, statuses)

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// SumHeadcountByDateKey returns the summed headcount of active bookings per
// YYYY-MM-DD date key in [fromKey, toKey). Grouping runs on the stored
// date_key, which is computed from the booking's own UTC offset at write
// time, so a booking whose venue-local date differs from its UTC date still
// counts toward the right day. Dates with no active bookings are absent from
// the map.
func (r *mongoBookingRepository) SumHeadcountByDateKey(
	ctx context.Context,
	unitID string,
	fromKey, toKey string,
) (map[string]int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"unit_id":  unitID,
			"status":   bson.M{"$in": []string{model.StatusPending, model.StatusConfirmed}},
			"date_key": bson.M{"$gte": fromKey, "$lt": toKey},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$date_key",
			"total": bson.M{"$sum": "$headcount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate headcounts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		DateKey string `bson:"_id"`
		Total   int    `bson:"total"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode headcount aggregate: %w", err)
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.DateKey] = row.Total
	}
	return totals, nil
}

// Update writes the booking's mutable fields. The filter requires an active
// status, mirroring UpdateStatus: a booking cancelled between the caller's
// read and this write matches nothing, and MatchedCount is zero.
func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$in": []string{model.StatusPending, model.StatusConfirmed}},
	}
	update := bson.M{
		"$set": bson.M{
			"name":        booking.Name,
			"headcount":   booking.Headcount,
			"occasion":    booking.Occasion,
			"start_time":  booking.StartTime,
			"end_time":    booking.EndTime,
			"date_key":    booking.DateKey,
			"phone":       booking.Phone,
			"email":       booking.Email,
			"custom_data": booking.CustomData,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return result, nil
}

// UpdateStatus transitions the booking only when its current status is one of
// expectStatuses; MatchedCount is zero when the booking raced to another
// state. The set document carries the new status plus transition metadata.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, expectStatuses []string, set bson.M) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$in": expectStatuses},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to transition booking: %w", err)
	}

	return result, nil
}

func (r *mongoBookingRepository) buildSearchFilter(unitID string, from, to *time.Time, statuses []string) bson.M {
	filter := bson.M{
		"unit_id": unitID,
	}

	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	if from != nil || to != nil {
		timeFilter := bson.M{}
		if from != nil {
			timeFilter["$gte"] = *from
		}
		if to != nil {
			timeFilter["$lt"] = *to
		}
		filter["start_time"] = timeFilter
	}

	return filter
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
