package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/models"
)

var ErrNoRecipients = errors.New("assignment needs at least one recipient")

type AssignmentService struct {
	assignmentCollection *mongo.Collection
	copyCollection       *mongo.Collection
	fileCollection       *mongo.Collection
}

func NewAssignmentService(db *mongo.Database) *AssignmentService {
	return &AssignmentService{
		assignmentCollection: db.Collection("assignments"),
		copyCollection:       db.Collection("user_assignments"),
		fileCollection:       db.Collection("files"),
	}
}

// Create validates and inserts the assignment document. Fan-out to the
// recipients happens in the trigger path once the store reports the insert,
// exactly as if the client had written the document directly.
func (s *AssignmentService) Create(ctx context.Context, assignment *models.Assignment) (string, error) {
	if len(assignment.Recipients) == 0 {
		return "", ErrNoRecipients
	}
	if assignment.FileID == "" || len(assignment.PartIDs) == 0 {
		return "", fmt.Errorf("assignment needs a file and at least one part")
	}

	fileID, err := primitive.ObjectIDFromHex(assignment.FileID)
	if err != nil {
		return "", fmt.Errorf("invalid file id: %w", err)
	}
	count, err := s.fileCollection.CountDocuments(ctx, bson.M{"_id": fileID})
	if err != nil {
		return "", fmt.Errorf("failed to check file: %w", err)
	}
	if count == 0 {
		return "", fmt.Errorf("file %s not found", assignment.FileID)
	}

	assignment.ID = primitive.NewObjectID()
	assignment.AssignedAt = time.Now().UTC()

	if _, err := s.assignmentCollection.InsertOne(ctx, assignment); err != nil {
		return "", fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment.ID.Hex(), nil
}

// ListCopiesForUser returns the caller's materialized assignment copies,
// most recent first.
func (s *AssignmentService) ListCopiesForUser(ctx context.Context, uid string) ([]models.AssignmentCopy, error) {
	cursor, err := s.copyCollection.Find(ctx,
		bson.M{"uid": uid},
		options.Find().SetSort(bson.M{"assigned_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var copies []models.AssignmentCopy
	if err := cursor.All(ctx, &copies); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	return copies, nil
}
