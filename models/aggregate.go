package models

import "time"

// Aggregate types used in membership keys and trigger path params.
const (
	AggregateTag   = "tag"
	AggregateGroup = "group"
)

// Tag is an open interest aggregate (e.g. "percussionist"), keyed by its name.
// MemberCount is denormalized and maintained by the membership counter trigger,
// so it is eventually consistent with the membership documents.
type Tag struct {
	ID          string     `bson:"_id" json:"id"` // tag name
	Name        string     `bson:"name" json:"name"`
	Type        string     `bson:"type" json:"type"` // "instrument", "genre", ...
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	MemberCount int64      `bson:"member_count" json:"member_count"`
	IsDeleted   bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

// Group is a managed ensemble aggregate with a manager and join policy.
type Group struct {
	ID          string     `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description" json:"description"`
	ManagerUID  string     `bson:"manager_uid" json:"manager_uid"`
	Visibility  string     `bson:"visibility" json:"visibility"` // "public", "invite-only"
	Status      string     `bson:"status" json:"status"`         // "pending", "verified"
	MemberCount int64      `bson:"member_count" json:"member_count"`
	IsDeleted   bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}
