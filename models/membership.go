package models

import (
	"fmt"
	"strings"
	"time"
)

// Membership is an existence-only record: a user belongs to an aggregate
// exactly when this document exists. The _id is the deterministic key
// "<aggregateType>:<aggregateID>:<uid>" so joins are idempotent and delete
// events can be attributed to their aggregate without a pre-image.
type Membership struct {
	ID            string    `bson:"_id" json:"id"`
	AggregateType string    `bson:"aggregate_type" json:"aggregate_type"` // "tag" or "group"
	AggregateID   string    `bson:"aggregate_id" json:"aggregate_id"`
	UID           string    `bson:"uid" json:"uid"`
	Role          string    `bson:"role,omitempty" json:"role,omitempty"` // groups only: "owner", "member"
	JoinedAt      time.Time `bson:"joined_at" json:"joined_at"`
}

func MembershipKey(aggregateType, aggregateID, uid string) string {
	return fmt.Sprintf("%s:%s:%s", aggregateType, aggregateID, uid)
}

// ParseMembershipKey splits a membership _id back into its components.
// The uid segment may itself contain colons; the first two segments may not.
func ParseMembershipKey(key string) (aggregateType, aggregateID, uid string, err error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed membership key: %q", key)
	}
	return parts[0], parts[1], parts[2], nil
}
