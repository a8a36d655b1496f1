package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParseLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         string             `bson:"user" json:"user"` // empty when caller sent no bearer uid
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Status       string             `bson:"status" json:"status"` // "success" or "error"
	InputSize    int                `bson:"input_size" json:"input_size"`
	ErrorMessage string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
}
