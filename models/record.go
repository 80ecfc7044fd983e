package models

import "time"

// DeliveryRecord is the persisted trace of one update sent to a user.
type DeliveryRecord struct {
	ID          string    `bson:"id" json:"id"`
	ReminderID  string    `bson:"reminderId" json:"reminderId"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Topic       string    `bson:"topic" json:"topic"`
	Preview     string    `bson:"preview" json:"preview"`
	SentAt      time.Time `bson:"sentAt" json:"sentAt"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
