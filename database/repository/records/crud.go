package recordsRepo

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new delivery record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.DeliveryRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns a delivery record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, id string) (*models.DeliveryRecord, error) {
	var record models.DeliveryRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByPhoneNumber fetches all delivery records for a recipient, newest first.
func (r *mongoRecordRepo) GetByPhoneNumber(ctx context.Context, phoneNumber string) ([]models.DeliveryRecord, error) {
	opts := options.Find().SetSort(bson.M{"sentAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"phoneNumber": phoneNumber}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DeliveryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes a delivery record by ID.
func (r *mongoRecordRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("record not found")
	}
	return nil
}
