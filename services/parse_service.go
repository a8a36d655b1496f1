package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"partflow/models"
)

// ParserError carries the downstream parser's failure message so the HTTP
// layer can return it verbatim.
type ParserError struct {
	Message string
}

func (e *ParserError) Error() string {
	return e.Message
}

type ParseService struct {
	fileCollection *mongo.Collection
	partCollection *mongo.Collection
	logCollection  *mongo.Collection
	b2Service      *B2Service // nil disables raw upload archival
	parserURL      string
	client         *http.Client
	logger         *log.Logger
}

func NewParseService(db *mongo.Database, b2Service *B2Service, parserURL string, parserTimeout time.Duration) *ParseService {
	return &ParseService{
		fileCollection: db.Collection("files"),
		partCollection: db.Collection("parts"),
		logCollection:  db.Collection("parse_logs"),
		b2Service:      b2Service,
		parserURL:      parserURL,
		client:         &http.Client{Timeout: parserTimeout},
		logger:         log.New(log.Writer(), "[PARSE] ", log.LstdFlags),
	}
}

// HandleUpload forwards the raw document to the parser service, splits the
// parsed event stream into parts and persists the file record. It returns
// the new file id and the parser output for the response body.
func (s *ParseService) HandleUpload(ctx context.Context, uid, fileName string, input []byte) (string, string, error) {
	yamlText, err := s.callParser(ctx, input)
	if err != nil {
		s.writeLog(ctx, uid, "error", len(input), err.Error())
		return "", "", err
	}

	split, err := SplitScore(yamlText)
	if err != nil {
		s.writeLog(ctx, uid, "error", len(input), err.Error())
		return "", "", err
	}

	var b2Object string
	if s.b2Service != nil {
		b2Object, err = s.b2Service.ArchiveUpload(ctx, uid, fileName, input)
		if err != nil {
			// Archival is best effort; the parsed result is the system of record.
			s.logger.Printf("failed to archive upload for %s: %v", uid, err)
			b2Object = ""
		}
	}

	fileID, err := s.storeParts(ctx, uid, fileName, int64(len(input)), b2Object, split)
	if err != nil {
		s.writeLog(ctx, uid, "error", len(input), err.Error())
		return "", "", err
	}

	s.writeLog(ctx, uid, "success", len(input), "")
	return fileID, yamlText, nil
}

func (s *ParseService) callParser(ctx context.Context, input []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.parserURL, bytes.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("failed to create parser request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach parser service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read parser response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ParserError{Message: string(body)}
	}
	return string(body), nil
}

// storeParts creates the file record and its parts: the full score first,
// then one part per instrument. The part set is fixed here and never
// incrementally updated.
func (s *ParseService) storeParts(ctx context.Context, uid, fileName string, size int64, b2Object string, split *SplitResult) (string, error) {
	now := time.Now().UTC()

	file := models.File{
		ID:        primitive.NewObjectID(),
		OwnerUID:  uid,
		Title:     fileName,
		Size:      size,
		Measures:  split.FullScore.Measures,
		B2Object:  b2Object,
		CreatedAt: now,
	}
	if _, err := s.fileCollection.InsertOne(ctx, file); err != nil {
		return "", fmt.Errorf("failed to create file record: %w", err)
	}
	fileID := file.ID.Hex()

	partIDs := make([]string, 0, 1+len(split.Instruments))
	all := append([]PartData{split.FullScore}, split.Instruments...)
	for _, data := range all {
		part := models.Part{
			ID:         primitive.NewObjectID(),
			FileID:     fileID,
			PartName:   data.Name,
			Content:    data.Content,
			EventCount: data.EventCount,
			Measures:   data.Measures,
			CreatedAt:  now,
		}
		if _, err := s.partCollection.InsertOne(ctx, part); err != nil {
			return "", fmt.Errorf("failed to create part %s: %w", data.Name, err)
		}
		partIDs = append(partIDs, part.ID.Hex())
	}

	_, err := s.fileCollection.UpdateOne(ctx,
		bson.M{"_id": file.ID},
		bson.M{"$set": bson.M{"part_ids": partIDs}},
	)
	if err != nil {
		return "", fmt.Errorf("failed to attach part ids to file: %w", err)
	}

	return fileID, nil
}

func (s *ParseService) writeLog(ctx context.Context, uid, status string, inputSize int, errorMessage string) {
	entry := models.ParseLog{
		ID:           primitive.NewObjectID(),
		User:         uid,
		Timestamp:    time.Now().UTC(),
		Status:       status,
		InputSize:    inputSize,
		ErrorMessage: errorMessage,
	}
	if _, err := s.logCollection.InsertOne(ctx, entry); err != nil {
		s.logger.Printf("failed to write parse log: %v", err)
	}
}
