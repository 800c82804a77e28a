package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/pkg/config"
	"seatrota/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const HolidaysCollection = "Holidays"

type mongoHolidayRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHolidayRepository(cfg *config.Config) HolidayRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHolidayRepository{
		cfg:        cfg,
		collection: db.Collection(HolidaysCollection),
	}
}

func (r *mongoHolidayRepository) FindByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var holiday model.Holiday
	if err := r.collection.FindOne(ctx, bson.M{"date": date}).Decode(&holiday); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrHolidayNotFound
		}
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	return &holiday, nil
}
