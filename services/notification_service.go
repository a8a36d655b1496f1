package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/models"
)

// NotificationService is the consuming side of fan-out: listing, marking
// read and deleting a user's notifications. It never creates them.
type NotificationService struct {
	notificationCollection *mongo.Collection
}

func NewNotificationService(db *mongo.Database) *NotificationService {
	return &NotificationService{
		notificationCollection: db.Collection("notifications"),
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, uid string, limit int64) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cursor, err := s.notificationCollection.Find(ctx,
		bson.M{"uid": uid},
		options.Find().SetSort(bson.M{"assigned_at": -1}).SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, uid, notificationID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}

	result, err := s.notificationCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "uid": uid},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, uid, notificationID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}

	result, err := s.notificationCollection.DeleteOne(ctx, bson.M{"_id": objID, "uid": uid})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}
