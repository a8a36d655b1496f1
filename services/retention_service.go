package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"partflow/models"
)

// RetentionService permanently deletes aggregates that have been
// soft-deleted for longer than the grace period.
type RetentionService struct {
	groupCollection      *mongo.Collection
	tagCollection        *mongo.Collection
	membershipCollection *mongo.Collection
	gracePeriod          time.Duration
	logger               *log.Logger
}

func NewRetentionService(db *mongo.Database, gracePeriod time.Duration) *RetentionService {
	return &RetentionService{
		groupCollection:      db.Collection("groups"),
		tagCollection:        db.Collection("tags"),
		membershipCollection: db.Collection("memberships"),
		gracePeriod:          gracePeriod,
		logger:               log.New(log.Writer(), "[RETENTION] ", log.LstdFlags),
	}
}

// Expired reports whether a soft-deleted timestamp has passed the grace
// period: deletedAt <= now - grace.
func Expired(deletedAt *time.Time, now time.Time, grace time.Duration) bool {
	if deletedAt == nil {
		return false
	}
	cutoff := now.Add(-grace)
	return !deletedAt.After(cutoff)
}

// PurgeExpiredAggregates deletes every group and tag whose soft-deletion
// predates the grace cutoff, cascading to the aggregate's membership
// documents. Matched documents are deleted in parallel; a failure on one
// does not block the others and there is no rollback.
func (s *RetentionService) PurgeExpiredAggregates(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.gracePeriod)

	groupsDeleted, err := s.purgeCollection(ctx, s.groupCollection, models.AggregateGroup, cutoff)
	if err != nil {
		s.logger.Printf("Error purging groups: %v", err)
	}

	tagsDeleted, err := s.purgeCollection(ctx, s.tagCollection, models.AggregateTag, cutoff)
	if err != nil {
		s.logger.Printf("Error purging tags: %v", err)
	}

	total := groupsDeleted + tagsDeleted
	s.logger.Printf("Retention sweep completed. Groups: %d, Tags: %d", groupsDeleted, tagsDeleted)
	return total, nil
}

func (s *RetentionService) purgeCollection(ctx context.Context, collection *mongo.Collection, aggregateType string, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"is_deleted": true,
		"deleted_at": bson.M{
			"$ne":  nil,
			"$lte": cutoff,
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired %ss: %w", aggregateType, err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Printf("Error decoding expired %s: %v", aggregateType, err)
			continue
		}
		ids = append(ids, doc.ID)
	}

	var deleted int64
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.purgeAggregate(ctx, collection, aggregateType, id); err != nil {
				s.logger.Printf("Failed to purge %s %s: %v", aggregateType, id, err)
				return
			}
			atomic.AddInt64(&deleted, 1)
			s.logger.Printf("Permanently deleted %s %s", aggregateType, id)
		}(id)
	}
	wg.Wait()

	return deleted, nil
}

// purgeAggregate removes the aggregate and cascades to its memberships so a
// later re-creation under the same id does not inherit stale members.
func (s *RetentionService) purgeAggregate(ctx context.Context, collection *mongo.Collection, aggregateType, id string) error {
	// Memberships go first so their delete events decrement a still-present
	// aggregate instead of surfacing as orphaned-membership warnings.
	_, err := s.membershipCollection.DeleteMany(ctx, bson.M{
		"aggregate_type": aggregateType,
		"aggregate_id":   id,
	})
	if err != nil {
		return fmt.Errorf("failed to cascade memberships: %w", err)
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", aggregateType, err)
	}
	return nil
}
