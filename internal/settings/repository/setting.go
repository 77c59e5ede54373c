package repository

import (
	"context"
	"errors"
	"fmt"
	settingserrors "seatwise/internal/settings/errors"
	"seatwise/pkg/config"
	"seatwise/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservation_settings"
)

type mongoSettingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type SettingRepository interface {
	FindByUnit(ctx context.Context, unitID string) (*model.ReservationSetting, error)
	Upsert(ctx context.Context, setting *model.ReservationSetting) error
}

func NewMongoSettingRepository(cfg *config.Config) SettingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSettingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSettingRepository) FindByUnit(ctx context.Context, unitID string) (*model.ReservationSetting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var setting model.ReservationSetting
	err := r.collection.FindOne(ctx, bson.M{"unit_id": unitID}).Decode(&setting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, settingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation settings: %w", err)
	}

	return &setting, nil
}

// Upsert writes the full settings document keyed by unit_id. The unique index
// on unit_id guarantees one document per unit.
func (r *mongoSettingRepository) Upsert(ctx context.Context, setting *model.ReservationSetting) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"unit_id": setting.UnitID}
	update := bson.M{
		"$set": bson.M{
			"blackout_dates":      setting.BlackoutDates,
			"daily_capacity":      setting.DailyCapacity,
			"bookable_from":       setting.BookableFrom,
			"bookable_to":         setting.BookableTo,
			"kitchen_from":        setting.KitchenFrom,
			"kitchen_to":          setting.KitchenTo,
			"bar_from":            setting.BarFrom,
			"bar_to":              setting.BarTo,
			"mode":                setting.Mode,
			"notification_emails": setting.NotificationEmails,
		},
		"$setOnInsert": bson.M{
			"unit_id":    setting.UnitID,
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert reservation settings: %w", err)
	}

	return nil
}
