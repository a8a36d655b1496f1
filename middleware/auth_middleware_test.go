package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partflow/models"
	"partflow/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func protectedRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seenUID string
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		seenUID = c.GetString("uid")
		c.Status(http.StatusOK)
	})
	return r, &seenUID
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Username: "alice", Role: "user"}
	token, err := utils.GenerateJWTTokenWithSecret(user, testSecret, time.Hour, "partflow")
	require.NoError(t, err)

	r, seenUID := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID.Hex(), *seenUID)
}

func TestAuthMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	r, _ := protectedRouter()

	for _, header := range []string{"", "Basic abc123", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareRejectsForgedToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Username: "mallory", Role: "user"}
	token, err := utils.GenerateJWTTokenWithSecret(user, "some-other-secret", time.Hour, "partflow")
	require.NoError(t, err)

	r, _ := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/parse", nil)
	c.Request.Header.Set("Authorization", "Bearer uid-42")

	assert.Equal(t, "uid-42", BearerUID(c))
}
