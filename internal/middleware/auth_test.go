package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/pkg/auth"
)

func newTestRouter(t *testing.T, roles ...model.Role) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	m := NewAuthMiddleware(jwtSvc)

	r := gin.New()
	group := r.Group("/protected")
	group.Use(m.Authenticate())
	if len(roles) > 0 {
		group.Use(m.RequireRole(roles...))
	}
	group.GET("", func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": string(UserRole(c))})
	})
	return r, jwtSvc
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	r, jwtSvc := newTestRouter(t)

	token, err := jwtSvc.GenerateToken(uuid.New(), "a@b.com", "patient")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, token).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic "+token).Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	r, jwtSvc := newTestRouter(t)

	token, err := jwtSvc.GenerateToken(uuid.New(), "a@b.com", "patient")
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, jwtSvc := newTestRouter(t, model.RoleAdmin)

	patientToken, err := jwtSvc.GenerateToken(uuid.New(), "a@b.com", "patient")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+patientToken).Code)

	adminToken, err := jwtSvc.GenerateToken(uuid.New(), "root@b.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken).Code)
}

func TestRequireRoleAllowsAnyListed(t *testing.T) {
	r, jwtSvc := newTestRouter(t, model.RoleDoctor, model.RoleAdmin)

	doctorToken, err := jwtSvc.GenerateToken(uuid.New(), "d@b.com", "doctor")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+doctorToken).Code)
}
