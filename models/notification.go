package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is additive: every fan-out delivery inserts a fresh document.
// Delivery is at-least-once; trigger redelivery can duplicate notifications
// and the consuming client de-duplicates by assignment id.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid" json:"uid"`
	AssignmentID string             `bson:"assignment_id" json:"assignment_id"`
	FromUID      string             `bson:"from_uid" json:"from_uid"`
	FileID       string             `bson:"file_id" json:"file_id"`
	PartIDs      []string           `bson:"part_ids" json:"part_ids"`
	AssignedAt   time.Time          `bson:"assigned_at" json:"assigned_at"`
	IsRead       bool               `bson:"is_read" json:"is_read"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
