package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"eduportal-backend/internal/identity"
	"eduportal-backend/pkg/jwt"
)

// stubProvider resolves users from a fixed map, falling back to a minimal
// identity for unknown IDs
type stubProvider struct {
	users     map[string]*identity.User
	lookupErr error
}

func (s *stubProvider) CurrentUser(ctx context.Context) (*identity.User, error) {
	return nil, fmt.Errorf("no authenticated user in context")
}

func (s *stubProvider) Lookup(ctx context.Context, userID string) (*identity.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if user, ok := s.users[userID]; ok {
		return user, nil
	}
	return &identity.User{ID: userID}, nil
}

func newAuthRouter(manager *jwt.JWTManager, provider identity.Provider, captured **identity.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(manager, provider))
	router.GET("/me", func(c *gin.Context) {
		user, _ := identity.FromContext(c.Request.Context())
		*captured = user
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddlewareEnrichesNameFromProfile(t *testing.T) {
	manager := jwt.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)
	userID := uuid.New()
	token, err := manager.GenerateAccessToken(userID, "alex@example.com", "student")
	assert.NoError(t, err)

	provider := &stubProvider{users: map[string]*identity.User{
		userID.String(): {
			ID:       userID.String(),
			Name:     "Alex Johnson",
			Email:    "alex@example.com",
			UserType: "student",
		},
	}}

	var captured *identity.User
	router := newAuthRouter(manager, provider, &captured)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured)
	assert.Equal(t, "Alex Johnson", captured.Name)
	assert.Equal(t, "alex@example.com", captured.Email)
	assert.Equal(t, "student", captured.UserType)
}

func TestAuthMiddlewareKeepsClaimsWhenProfileUnknown(t *testing.T) {
	manager := jwt.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)
	userID := uuid.New()
	token, err := manager.GenerateAccessToken(userID, "maria@example.com", "staff")
	assert.NoError(t, err)

	var captured *identity.User
	router := newAuthRouter(manager, &stubProvider{}, &captured)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured)
	assert.Empty(t, captured.Name)
	assert.Equal(t, "maria@example.com", captured.Email)
	assert.Equal(t, "staff", captured.UserType)
}

func TestAuthMiddlewareSucceedsWhenLookupFails(t *testing.T) {
	manager := jwt.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)
	userID := uuid.New()
	token, err := manager.GenerateAccessToken(userID, "maria@example.com", "staff")
	assert.NoError(t, err)

	var captured *identity.User
	router := newAuthRouter(manager, &stubProvider{lookupErr: assert.AnError}, &captured)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured)
	assert.Equal(t, userID.String(), captured.ID)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	manager := jwt.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)

	var captured *identity.User
	router := newAuthRouter(manager, &stubProvider{}, &captured)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}

func TestAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	manager := jwt.NewJWTManager("0123456789abcdef0123456789abcdef", 15*time.Minute)

	var captured *identity.User
	router := newAuthRouter(manager, &stubProvider{}, &captured)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}
