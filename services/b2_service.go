package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// B2Service archives raw uploads in Backblaze B2 so the original bytes
// survive the parse pipeline.
type B2Service struct {
	client     *b2.Client
	bucketName string
	bucket     *b2.Bucket
}

func NewB2Service(keyID, applicationKey, bucketName string) (*B2Service, error) {
	ctx := context.Background()

	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &B2Service{
		client:     client,
		bucketName: bucketName,
		bucket:     bucket,
	}, nil
}

// ArchiveUpload writes the raw upload under a collision-free object name and
// returns that name for the file record.
func (s *B2Service) ArchiveUpload(ctx context.Context, uid, fileName string, data []byte) (string, error) {
	objectName := fmt.Sprintf("uploads/%s/%s-%s", uid, uuid.NewString(), fileName)

	writer := s.bucket.Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to archive upload to B2: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close B2 writer: %w", err)
	}

	return objectName, nil
}

// DeleteObject removes an archived upload, e.g. when the owning file record
// could not be persisted.
func (s *B2Service) DeleteObject(ctx context.Context, objectName string) error {
	if err := s.bucket.Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete B2 object %s: %w", objectName, err)
	}
	return nil
}
