package testutil

import (
	"context"
	"testing"
	"time"

	"seatrota/internal/bookings/repository"
	"seatrota/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "seatrota"
	ConnectionTimeout   = 10 * time.Second
)

// MongoHelper seeds and inspects the service database directly.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanSeatData empties the three collections but keeps their validators
// and indexes, which the service relies on.
func (m *MongoHelper) CleanSeatData(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{repository.BookingsCollection, repository.UsersCollection, repository.HolidaysCollection} {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

func (m *MongoHelper) InsertUsers(t *testing.T, users ...*model.User) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs := make([]any, 0, len(users))
	for _, u := range users {
		docs = append(docs, u)
	}
	if _, err := m.Database.Collection(repository.UsersCollection).InsertMany(ctx, docs); err != nil {
		t.Fatalf("failed to insert users: %v", err)
	}
}

func (m *MongoHelper) InsertHoliday(t *testing.T, date time.Time, reason string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc := bson.M{"date": date, "reason": reason}
	if _, err := m.Database.Collection(repository.HolidaysCollection).InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to insert holiday: %v", err)
	}
}

func (m *MongoHelper) CountActiveBookings(t *testing.T, date time.Time) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(repository.BookingsCollection).CountDocuments(ctx, bson.M{"date": date, "status": model.StatusActive})
	if err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return count
}
