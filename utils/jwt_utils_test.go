package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Username: "alice",
		Role:     "user",
	}

	token, err := GenerateJWTTokenWithSecret(user, "test-secret", time.Hour, "partflow")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyJWTTokenWithSecret(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "partflow", claims.Issuer)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Username: "a", Role: "user"}

	token, err := GenerateJWTTokenWithSecret(user, "right-secret", time.Hour, "partflow")
	require.NoError(t, err)

	_, err = VerifyJWTTokenWithSecret(token, "wrong-secret")
	assert.Error(t, err)
}

func TestJWTExpiredTokenRejected(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Username: "a", Role: "user"}

	token, err := GenerateJWTTokenWithSecret(user, "test-secret", -time.Minute, "partflow")
	require.NoError(t, err)

	_, err = VerifyJWTTokenWithSecret(token, "test-secret")
	assert.Error(t, err)
}

func TestJWTGarbageRejected(t *testing.T) {
	_, err := VerifyJWTTokenWithSecret("not.a.token", "test-secret")
	assert.Error(t, err)
}
