package recordsRepo

import (
	"context"
	"errors"

	"bookingagent/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrRecordNotFound = errors.New("record not found")

// BookingRecordRepository is the ledger of bookings the assistant made.
type BookingRecordRepository interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]models.BookingRecord, error)
	List(ctx context.Context, limit int64) ([]models.BookingRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a BookingRecordRepository backed by MongoDB.
func NewMongoRecordRepo(client *mongo.Client, dbName string) (BookingRecordRepository, error) {
	db := client.Database(dbName)
	r := &mongoRecordRepo{
		coll: db.Collection("booking_records"),
	}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}
