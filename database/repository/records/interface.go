package recordsRepo

import (
	"context"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/database"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type DeliveryRecordRepository interface {
	Create(ctx context.Context, record models.DeliveryRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.DeliveryRecord, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) ([]models.DeliveryRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a new DeliveryRecordRepository instance using MongoDB.
func NewMongoRecordRepo() DeliveryRecordRepository {
	db := database.MongoClient.Database("finance_agent")
	return &mongoRecordRepo{
		coll: db.Collection("delivery_records"),
	}
}
