package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/models"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupDeleted  = errors.New("group is deleted")
	ErrNotManager    = errors.New("only the group manager may do this")
	ErrInviteOnly    = errors.New("group is invite-only")
)

type GroupService struct {
	groupCollection      *mongo.Collection
	membershipCollection *mongo.Collection
}

func NewGroupService(db *mongo.Database) *GroupService {
	return &GroupService{
		groupCollection:      db.Collection("groups"),
		membershipCollection: db.Collection("memberships"),
	}
}

// CreateGroup inserts the group with a zero member count and joins the
// manager as owner. The count itself is maintained by the membership counter
// trigger, never written directly.
func (s *GroupService) CreateGroup(ctx context.Context, group *models.Group) error {
	group.MemberCount = 0
	group.IsDeleted = false
	group.DeletedAt = nil
	group.CreatedAt = time.Now().UTC()
	if group.Visibility == "" {
		group.Visibility = "invite-only"
	}
	if group.Status == "" {
		group.Status = "pending"
	}

	if _, err := s.groupCollection.InsertOne(ctx, group); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("group %s already exists", group.ID)
		}
		return fmt.Errorf("failed to create group: %w", err)
	}

	return s.writeMembership(ctx, group.ID, group.ManagerUID, "owner")
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	err := s.groupCollection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return &group, nil
}

// Join adds uid to the group. Joining twice is an update on the existing
// membership document, which the counter trigger treats as a zero-delta
// no-op.
func (s *GroupService) Join(ctx context.Context, groupID, callerUID, uid string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.IsDeleted {
		return ErrGroupDeleted
	}
	if callerUID != group.ManagerUID {
		if callerUID != uid {
			return ErrNotManager
		}
		if group.Visibility == "invite-only" {
			return ErrInviteOnly
		}
	}

	role := "member"
	if uid == group.ManagerUID {
		role = "owner"
	}
	return s.writeMembership(ctx, groupID, uid, role)
}

func (s *GroupService) writeMembership(ctx context.Context, groupID, uid, role string) error {
	membership := models.Membership{
		ID:            models.MembershipKey(models.AggregateGroup, groupID, uid),
		AggregateType: models.AggregateGroup,
		AggregateID:   groupID,
		UID:           uid,
		Role:          role,
		JoinedAt:      time.Now().UTC(),
	}
	_, err := s.membershipCollection.ReplaceOne(ctx,
		bson.M{"_id": membership.ID}, membership, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write membership: %w", err)
	}
	return nil
}

// Leave removes uid's membership. Removing a non-member is a no-op: no
// document is deleted, so no change event fires.
func (s *GroupService) Leave(ctx context.Context, groupID, uid string) error {
	key := models.MembershipKey(models.AggregateGroup, groupID, uid)
	if _, err := s.membershipCollection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]models.Membership, error) {
	cursor, err := s.membershipCollection.Find(ctx, bson.M{
		"aggregate_type": models.AggregateGroup,
		"aggregate_id":   groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Membership
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

// SoftDeleteGroup flags the group for the retention sweep. The sweep purges
// it permanently after the grace period.
func (s *GroupService) SoftDeleteGroup(ctx context.Context, groupID, callerUID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.ManagerUID != callerUID {
		return ErrNotManager
	}

	now := time.Now().UTC()
	_, err = s.groupCollection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to soft delete group: %w", err)
	}
	return nil
}
