package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/models"
)

var ErrFileNotFound = errors.New("file not found")

type FileService struct {
	fileCollection *mongo.Collection
	partCollection *mongo.Collection
}

func NewFileService(db *mongo.Database) *FileService {
	return &FileService{
		fileCollection: db.Collection("files"),
		partCollection: db.Collection("parts"),
	}
}

func (s *FileService) ListForUser(ctx context.Context, uid string) ([]models.File, error) {
	cursor, err := s.fileCollection.Find(ctx,
		bson.M{"owner_uid": uid},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

func (s *FileService) Get(ctx context.Context, fileID string) (*models.File, error) {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, fmt.Errorf("invalid file id: %w", err)
	}

	var file models.File
	err = s.fileCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&file)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &file, nil
}

// ListParts returns a file's parts with the full score first, then
// instrument parts in their creation order.
func (s *FileService) ListParts(ctx context.Context, fileID string) ([]models.Part, error) {
	cursor, err := s.partCollection.Find(ctx,
		bson.M{"file_id": fileID},
		options.Find().SetSort(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer cursor.Close(ctx)

	var parts []models.Part
	if err := cursor.All(ctx, &parts); err != nil {
		return nil, fmt.Errorf("failed to decode parts: %w", err)
	}
	return parts, nil
}
