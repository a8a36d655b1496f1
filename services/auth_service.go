package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"partflow/models"
	"partflow/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	userCollection *mongo.Collection
	jwtSecret      string
	jwtExpiration  time.Duration
	jwtIssuer      string
}

func NewAuthService(db *mongo.Database, jwtSecret string, jwtExpiration time.Duration, jwtIssuer string) *AuthService {
	service := &AuthService{
		userCollection: db.Collection("users"),
		jwtSecret:      jwtSecret,
		jwtExpiration:  jwtExpiration,
		jwtIssuer:      jwtIssuer,
	}
	service.createIndexes()
	return service
}

func (s *AuthService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.M{"email": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.M{"username": 1},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := s.userCollection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("[AuthService] Failed to create user indexes: %v", err)
	}
}

func (s *AuthService) Register(ctx context.Context, email, username, name, password string) (*models.User, string, error) {
	if email == "" || username == "" || password == "" {
		return nil, "", fmt.Errorf("email, username and password are required")
	}

	count, err := s.userCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	count, err = s.userCollection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateJWTTokenWithSecret(user, s.jwtSecret, s.jwtExpiration, s.jwtIssuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTTokenWithSecret(&user, s.jwtSecret, s.jwtExpiration, s.jwtIssuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return &user, token, nil
}
