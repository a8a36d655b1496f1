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
	ErrTagNotFound = errors.New("tag not found")
	ErrTagDeleted  = errors.New("tag is deleted")
	ErrNotCreator  = errors.New("only the tag creator may do this")
)

type TagService struct {
	tagCollection        *mongo.Collection
	membershipCollection *mongo.Collection
}

func NewTagService(db *mongo.Database) *TagService {
	return &TagService{
		tagCollection:        db.Collection("tags"),
		membershipCollection: db.Collection("memberships"),
	}
}

// CreateTag inserts the tag keyed by its name. Tags are open: anyone can
// join, and the creator is not a member until they join like everyone else.
func (s *TagService) CreateTag(ctx context.Context, tag *models.Tag) error {
	tag.ID = tag.Name
	tag.MemberCount = 0
	tag.IsDeleted = false
	tag.DeletedAt = nil
	tag.CreatedAt = time.Now().UTC()
	if tag.Type == "" {
		tag.Type = "instrument"
	}

	if _, err := s.tagCollection.InsertOne(ctx, tag); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("tag %s already exists", tag.Name)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (s *TagService) GetTag(ctx context.Context, tagName string) (*models.Tag, error) {
	var tag models.Tag
	err := s.tagCollection.FindOne(ctx, bson.M{"_id": tagName}).Decode(&tag)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &tag, nil
}

func (s *TagService) Join(ctx context.Context, tagName, uid string) error {
	tag, err := s.GetTag(ctx, tagName)
	if err != nil {
		return err
	}
	if tag.IsDeleted {
		return ErrTagDeleted
	}

	membership := models.Membership{
		ID:            models.MembershipKey(models.AggregateTag, tagName, uid),
		AggregateType: models.AggregateTag,
		AggregateID:   tagName,
		UID:           uid,
		JoinedAt:      time.Now().UTC(),
	}
	_, err = s.membershipCollection.ReplaceOne(ctx,
		bson.M{"_id": membership.ID}, membership, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write membership: %w", err)
	}
	return nil
}

func (s *TagService) Leave(ctx context.Context, tagName, uid string) error {
	key := models.MembershipKey(models.AggregateTag, tagName, uid)
	if _, err := s.membershipCollection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

func (s *TagService) SoftDeleteTag(ctx context.Context, tagName, callerUID string) error {
	tag, err := s.GetTag(ctx, tagName)
	if err != nil {
		return err
	}
	if tag.CreatedBy != callerUID {
		return ErrNotCreator
	}

	now := time.Now().UTC()
	_, err = s.tagCollection.UpdateOne(ctx,
		bson.M{"_id": tagName},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to soft delete tag: %w", err)
	}
	return nil
}
