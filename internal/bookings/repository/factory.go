package repository

import (
	"seatrota/pkg/config"
)

// New builds the repositories for cfg.StorageDriver. The matching client
// connection must already be open (config.Connect).
func New(cfg *config.Config) *Repositories {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		return &Repositories{
			Bookings: NewMongoBookingRepository(cfg),
			Holidays: NewMongoHolidayRepository(cfg),
			Users:    NewMongoUserRepository(cfg),
		}
	case config.StoragePostgres:
		return &Repositories{
			Bookings: NewPostgresBookingRepository(cfg),
			Holidays: NewPostgresHolidayRepository(cfg),
			Users:    NewPostgresUserRepository(cfg),
		}
	default:
		cfg.Log.Warn("Using in-memory storage, data is lost on restart")
		return &Repositories{
			Bookings: NewMemoryBookingRepository(),
			Holidays: NewMemoryHolidayRepository(),
			Users:    NewMemoryUserRepository(),
		}
	}
}
