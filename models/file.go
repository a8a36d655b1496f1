package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is a parsed score owned by the uploading user. Its part set is fixed
// at creation time; parts are never incrementally updated afterwards.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerUID  string             `bson:"owner_uid" json:"owner_uid"`
	Title     string             `bson:"title" json:"title"`
	Size      int64              `bson:"size" json:"size"` // raw input bytes
	Measures  int                `bson:"measures" json:"measures"`
	PartIDs   []string           `bson:"part_ids" json:"part_ids"` // full score first
	B2Object  string             `bson:"b2_object,omitempty" json:"b2_object,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Part holds one independently serialized slice of a file's event stream:
// either the full score or a single instrument's events.
type Part struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileID     string             `bson:"file_id" json:"file_id"`
	PartName   string             `bson:"part_name" json:"part_name"` // "Full Score" or instrument name
	Content    string             `bson:"content" json:"content"`     // YAML event stream
	EventCount int                `bson:"event_count" json:"event_count"`
	Measures   int                `bson:"measures" json:"measures"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

const FullScorePartName = "Full Score"
