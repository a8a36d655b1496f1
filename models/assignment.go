package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipient type discriminators.
const (
	RecipientUser  = "user"
	RecipientGroup = "group"
)

// Recipient is a tagged union: exactly one of UID or GroupID is set,
// selected by Type.
type Recipient struct {
	Type    string `bson:"type" json:"type"`
	UID     string `bson:"uid,omitempty" json:"uid,omitempty"`
	GroupID string `bson:"group_id,omitempty" json:"group_id,omitempty"`
}

// Assignment distributes parts of a file to users and groups. It is written
// once and treated as immutable; the fan-out trigger reads it on creation.
type Assignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileID         string             `bson:"file_id" json:"file_id"`
	PartIDs        []string           `bson:"part_ids" json:"part_ids"`
	AssignedBy     string             `bson:"assigned_by" json:"assigned_by"`
	Recipients     []Recipient        `bson:"recipients" json:"recipients"`
	AssignmentName string             `bson:"assignment_name,omitempty" json:"assignment_name,omitempty"`
	AssignedAt     time.Time          `bson:"assigned_at" json:"assigned_at"`
}

// AssignmentCopy is the per-recipient materialization of an assignment,
// keyed by "<uid>:<assignmentID>" so redelivery overwrites instead of
// duplicating. GroupID and AssignmentName are stamped when the recipient
// was resolved through a group.
type AssignmentCopy struct {
	ID             string    `bson:"_id" json:"id"`
	UID            string    `bson:"uid" json:"uid"`
	AssignmentID   string    `bson:"assignment_id" json:"assignment_id"`
	FileID         string    `bson:"file_id" json:"file_id"`
	PartIDs        []string  `bson:"part_ids" json:"part_ids"`
	AssignedBy     string    `bson:"assigned_by" json:"assigned_by"`
	GroupID        string    `bson:"group_id,omitempty" json:"group_id,omitempty"`
	AssignmentName string    `bson:"assignment_name,omitempty" json:"assignment_name,omitempty"`
	AssignedAt     time.Time `bson:"assigned_at" json:"assigned_at"`
}

func AssignmentCopyKey(uid, assignmentID string) string {
	return fmt.Sprintf("%s:%s", uid, assignmentID)
}
